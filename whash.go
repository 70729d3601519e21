package imagehash

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/Brishen/imagehash/wavelet"
)

// ErrNotPowerOfTwo is returned by WHash when the hash size or image scale is
// not a power of two.
var ErrNotPowerOfTwo = errors.New("imagehash: value must be a power of two")

// WHash computes the wavelet hash of the image. The image is reduced to
// imageScale x imageScale grayscale pixels, normalized to [0, 1], and
// decomposed with a 2D Haar wavelet until the approximation sub-band is
// hashSize x hashSize; each bit records whether one of its coefficients
// exceeds their median.
//
// hashSize and imageScale must be powers of two with hashSize not larger
// than imageScale. An imageScale of zero derives the scale from the image:
// the largest power of two not exceeding the smaller image dimension, but at
// least hashSize.
//
// If removeMaxLL is set, the lowest-frequency sub-band of the deepest
// decomposition is zeroed out and the image reconstructed from the remainder
// before hashing, which removes the global brightness bias from the hash.
func WHash(img image.Image, hashSize, imageScale int, removeMaxLL bool) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	if !isPowerOfTwo(hashSize) {
		return nil, fmt.Errorf("%w: hash size %d", ErrNotPowerOfTwo, hashSize)
	}
	if imageScale == 0 {
		bounds := img.Bounds()
		smaller := bounds.Dx()
		if bounds.Dy() < smaller {
			smaller = bounds.Dy()
		}
		imageScale = 1
		for imageScale*2 <= smaller {
			imageScale *= 2
		}
		if imageScale < hashSize {
			imageScale = hashSize
		}
	} else if !isPowerOfTwo(imageScale) {
		return nil, fmt.Errorf("%w: image scale %d", ErrNotPowerOfTwo, imageScale)
	}

	maxLevel := wavelet.MaxLevel(imageScale)
	level := int(math.Round(math.Log2(float64(hashSize))))
	if level > maxLevel {
		return nil, fmt.Errorf("imagehash: hash size %d exceeds image scale %d", hashSize, imageScale)
	}
	dwtLevel := maxLevel - level

	pixels := grayResize(img, imageScale, imageScale)
	for _, row := range pixels {
		for column := range row {
			row[column] /= 255
		}
	}

	if removeMaxLL {
		pyramid, err := wavelet.Decompose(pixels, maxLevel)
		if err != nil {
			return nil, err
		}
		for _, row := range pyramid.LL {
			for column := range row {
				row[column] = 0
			}
		}
		pixels = wavelet.Reconstruct(pyramid)
	}

	pyramid, err := wavelet.Decompose(pixels, dwtLevel)
	if err != nil {
		return nil, err
	}
	lowFreq := flatten(pyramid.LL)
	median := Median(lowFreq)
	bits := make([]bool, 0, len(lowFreq))
	for _, coefficient := range lowFreq {
		bits = append(bits, coefficient > median)
	}
	return newHash(bits, hashSize), nil
}

func isPowerOfTwo(value int) bool {
	return value > 0 && value&(value-1) == 0
}
