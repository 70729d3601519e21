package imagehash

import (
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// pixelGrid converts an image into a grid of grayscale intensities in the
// range [0, 255], one float64 per pixel, indexed [row][column]. Luminance
// uses the ITU-R 601 weights.
func pixelGrid(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	grid := make([][]float64, height)
	for row := 0; row < height; row++ {
		grid[row] = make([]float64, width)
		for column := 0; column < width; column++ {
			r32, g32, b32, _ := img.At(bounds.Min.X+column, bounds.Min.Y+row).RGBA()
			r, g, b := float64(r32>>8), float64(g32>>8), float64(b32>>8)
			grid[row][column] = 0.299*r + 0.587*g + 0.114*b
		}
	}
	return grid
}

// grayResize converts the image to grayscale, resizes it to width x height
// with Lanczos resampling and returns its intensity grid.
func grayResize(img image.Image, width, height int) [][]float64 {
	gray := imaging.Grayscale(img)
	scaled := resize.Resize(uint(width), uint(height), gray, resize.Lanczos3)
	return pixelGrid(scaled)
}

// flatten returns the grid's values in row-major order.
func flatten(grid [][]float64) []float64 {
	if len(grid) == 0 {
		return nil
	}
	flat := make([]float64, 0, len(grid)*len(grid[0]))
	for _, row := range grid {
		flat = append(flat, row...)
	}
	return flat
}

// medianFilter replaces every value with the median of its 3x3 neighborhood,
// clipped at the grid borders. It suppresses the salt-and-pepper noise that
// would otherwise split segments during flood filling.
func medianFilter(grid [][]float64) [][]float64 {
	height := len(grid)
	if height == 0 {
		return grid
	}
	width := len(grid[0])
	filtered := make([][]float64, height)
	window := make([]float64, 0, 9)
	for row := 0; row < height; row++ {
		filtered[row] = make([]float64, width)
		for column := 0; column < width; column++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					y, x := row+dy, column+dx
					if y < 0 || y >= height || x < 0 || x >= width {
						continue
					}
					window = append(window, grid[y][x])
				}
			}
			sort.Float64s(window)
			filtered[row][column] = window[len(window)/2]
		}
	}
	return filtered
}
