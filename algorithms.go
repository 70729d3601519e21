package imagehash

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// MeanFunc aggregates a slice of pixel or coefficient values into a single
// threshold. It lets callers swap the arithmetic mean for a more robust
// aggregate such as Median without changing the algorithm.
type MeanFunc func(values []float64) float64

// Mean returns the arithmetic mean of the values.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// Median returns the median of the values, interpolating between the two
// central values for even counts.
func Median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}

// AverageHash computes the mean-threshold hash of the image: the image is
// reduced to hashSize x hashSize grayscale pixels and each bit records
// whether its pixel is brighter than the overall mean.
func AverageHash(img image.Image, hashSize int) (*Hash, error) {
	return AverageHashMean(img, hashSize, Mean)
}

// AverageHashMean is AverageHash with an injectable aggregate deciding the
// brightness threshold, for example Median.
func AverageHashMean(img image.Image, hashSize int, mean MeanFunc) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	pixels := grayResize(img, hashSize, hashSize)
	average := mean(flatten(pixels))
	bits := make([]bool, 0, hashSize*hashSize)
	for _, row := range pixels {
		for _, pixel := range row {
			bits = append(bits, pixel > average)
		}
	}
	return newHash(bits, hashSize), nil
}

// DHash computes the horizontal difference hash of the image: the image is
// reduced to (hashSize+1) x hashSize grayscale pixels and each bit records
// whether a pixel is brighter than its left neighbor, yielding
// hashSize x hashSize bits.
func DHash(img image.Image, hashSize int) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	pixels := grayResize(img, hashSize+1, hashSize)
	bits := make([]bool, 0, hashSize*hashSize)
	for row := 0; row < hashSize; row++ {
		for column := 0; column < hashSize; column++ {
			bits = append(bits, pixels[row][column+1] > pixels[row][column])
		}
	}
	return newHash(bits, hashSize), nil
}

// DHashVertical is DHash with the difference taken between vertical
// neighbors instead of horizontal ones.
func DHashVertical(img image.Image, hashSize int) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	pixels := grayResize(img, hashSize, hashSize+1)
	bits := make([]bool, 0, hashSize*hashSize)
	for row := 0; row < hashSize; row++ {
		for column := 0; column < hashSize; column++ {
			bits = append(bits, pixels[row+1][column] > pixels[row][column])
		}
	}
	return newHash(bits, hashSize), nil
}

// PHash computes the frequency-domain hash of the image. The image is
// reduced to (hashSize*highfreqFactor) square grayscale pixels, a 2D
// discrete cosine transform is applied, and each bit records whether one of
// the hashSize x hashSize lowest-frequency coefficients exceeds their
// median. A highfreqFactor below 1 selects the default of 4.
//
// The transform is gonum's DCT-I; implementations built on a DCT-II produce
// different bit patterns, so hashes serialized by one should not be compared
// against hashes from the other.
func PHash(img image.Image, hashSize, highfreqFactor int) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	if highfreqFactor < 1 {
		highfreqFactor = 4
	}
	imgSize := hashSize * highfreqFactor
	pixels := grayResize(img, imgSize, imgSize)
	dct2D(pixels)

	lowFreq := make([]float64, 0, hashSize*hashSize)
	for row := 0; row < hashSize; row++ {
		lowFreq = append(lowFreq, pixels[row][:hashSize]...)
	}
	median := Median(lowFreq)
	bits := make([]bool, 0, len(lowFreq))
	for _, coefficient := range lowFreq {
		bits = append(bits, coefficient > median)
	}
	return newHash(bits, hashSize), nil
}

// PHashSimple is a simplified frequency-domain hash: the cosine transform is
// applied per row only, the DC column is skipped, and the coefficients are
// thresholded at their mean instead of their median.
func PHashSimple(img image.Image, hashSize, highfreqFactor int) (*Hash, error) {
	if hashSize < 2 {
		return nil, ErrHashSize
	}
	if highfreqFactor < 1 {
		highfreqFactor = 4
	}
	imgSize := hashSize * highfreqFactor
	pixels := grayResize(img, imgSize, imgSize)
	dct := fourier.NewDCT(imgSize)
	for row := range pixels {
		pixels[row] = dct.Transform(nil, pixels[row])
	}

	// Keep the first hashSize rows, skipping the DC column.
	lowFreq := make([]float64, 0, hashSize*hashSize)
	for row := 0; row < hashSize; row++ {
		lowFreq = append(lowFreq, pixels[row][1:hashSize+1]...)
	}
	average := Mean(lowFreq)
	bits := make([]bool, 0, len(lowFreq))
	for _, coefficient := range lowFreq {
		bits = append(bits, coefficient > average)
	}
	return newHash(bits, hashSize), nil
}

// dct2D applies the discrete cosine transform in place to every column and
// then every row of the square grid.
func dct2D(grid [][]float64) {
	size := len(grid)
	dct := fourier.NewDCT(size)
	column := make([]float64, size)
	transformed := make([]float64, size)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			column[y] = grid[y][x]
		}
		dct.Transform(transformed, column)
		for y := 0; y < size; y++ {
			grid[y][x] = transformed[y]
		}
	}
	for y := 0; y < size; y++ {
		grid[y] = dct.Transform(nil, grid[y])
	}
}
