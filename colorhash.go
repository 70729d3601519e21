package imagehash

import (
	"errors"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrBinBits is returned by ColorHash when binbits is not positive.
var ErrBinBits = errors.New("imagehash: binbits must be positive")

const hueBuckets = 6

// ColorHash computes a hash of the image's color distribution. Pixels are
// classified in HSV space into black (darkest eighth of the intensity
// range), gray (low saturation, not black) and two saturation bands, faint
// and bright, for the colorful remainder. Each saturation band is split
// into a six-bucket hue histogram. The black fraction, the gray fraction
// and the twelve hue-bucket fractions are each quantized to binbits bits
// and concatenated, so the hash holds exactly 14*binbits bits.
//
// Unlike the grayscale hashes, ColorHash works on the image at its original
// resolution.
func ColorHash(img image.Image, binbits int) (*Hash, error) {
	if binbits <= 0 {
		return nil, ErrBinBits
	}
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil, errors.New("imagehash: empty image")
	}

	var blackCount, grayCount, colorCount int
	var faintCounts, brightCounts [hueBuckets]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixel := img.At(x, y)
			r32, g32, b32, _ := pixel.RGBA()
			r, g, b := float64(r32>>8), float64(g32>>8), float64(b32>>8)
			intensity := int(0.299*r + 0.587*g + 0.114*b)
			if intensity < 256/8 {
				blackCount++
				continue
			}

			var hue, saturation float64
			if c, ok := colorful.MakeColor(pixel); ok {
				hue, saturation, _ = c.Hsv()
			}
			saturationByte := int(saturation*255 + 0.5)
			if saturationByte < 256/3 {
				grayCount++
				continue
			}

			colorCount++
			bucket := int(hue) / (360 / hueBuckets)
			if bucket >= hueBuckets {
				bucket = hueBuckets - 1
			}
			if saturationByte < 256*2/3 {
				faintCounts[bucket]++
			} else if saturationByte > 256*2/3 {
				brightCounts[bucket]++
			}
		}
	}

	colorTotal := colorCount
	if colorTotal < 1 {
		colorTotal = 1
	}
	values := make([]int, 0, 2+2*hueBuckets)
	values = append(values,
		quantize(float64(blackCount)/float64(total), binbits),
		quantize(float64(grayCount)/float64(total), binbits))
	for _, counts := range faintCounts {
		values = append(values, quantize(float64(counts)/float64(colorTotal), binbits))
	}
	for _, counts := range brightCounts {
		values = append(values, quantize(float64(counts)/float64(colorTotal), binbits))
	}

	// One row of binbits bits per value, most significant bit first.
	bits := make([]bool, 0, len(values)*binbits)
	for _, value := range values {
		for shift := binbits - 1; shift >= 0; shift-- {
			bits = append(bits, value&(1<<uint(shift)) != 0)
		}
	}
	return newHash(bits, binbits), nil
}

// quantize maps a fraction in [0, 1] to a binbits-bit integer, clamping to
// the largest representable value.
func quantize(fraction float64, binbits int) int {
	maxValue := 1 << uint(binbits)
	value := int(fraction * float64(maxValue))
	if value > maxValue-1 {
		value = maxValue - 1
	}
	return value
}
