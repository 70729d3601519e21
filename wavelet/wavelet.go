/*
Package wavelet provides a multi-level 2D Haar wavelet decomposition of
grayscale intensity grids, along with the matching reconstruction.
*/
package wavelet

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotSquare is returned when the input grid is not square.
	ErrNotSquare = errors.New("wavelet: grid must be square")

	// ErrLevel is returned when the requested decomposition level is
	// negative or exceeds what the grid size allows.
	ErrLevel = errors.New("wavelet: decomposition level out of range")
)

// Band holds the three detail sub-bands of one decomposition level. LH
// carries vertical detail, HL horizontal detail and HH diagonal detail.
type Band struct {
	LH [][]float64
	HL [][]float64
	HH [][]float64
}

// Pyramid is the result of a multi-level decomposition: the approximation
// (LL) sub-band of the coarsest level plus the detail bands of every level,
// ordered coarsest first.
type Pyramid struct {
	LL    [][]float64
	Bands []Band
}

// MaxLevel returns the deepest decomposition level available for a square
// grid of the given side length, the number of times the side can be halved.
func MaxLevel(side int) int {
	if side < 2 {
		return 0
	}
	return int(math.Log2(float64(side)))
}

// Decompose performs a level-deep 2D Haar decomposition of the grid. The
// grid must be square and its side must be divisible by 2^level. A level of
// zero returns the grid itself as the LL band.
func Decompose(grid [][]float64, level int) (*Pyramid, error) {
	side := len(grid)
	for _, row := range grid {
		if len(row) != side {
			return nil, ErrNotSquare
		}
	}
	if level < 0 || level > MaxLevel(side) {
		return nil, fmt.Errorf("%w: level %d for side %d", ErrLevel, level, side)
	}

	current := copyGrid(grid)
	bands := make([]Band, 0, level)
	for step := 0; step < level; step++ {
		if len(current)%2 != 0 {
			return nil, fmt.Errorf("%w: side %d not divisible by 2^%d", ErrLevel, side, level)
		}
		var band Band
		current, band = split(current)
		bands = append(bands, band)
	}

	// Reverse so the coarsest band comes first, matching the order in which
	// Reconstruct consumes them.
	for i, j := 0, len(bands)-1; i < j; i, j = i+1, j-1 {
		bands[i], bands[j] = bands[j], bands[i]
	}
	return &Pyramid{LL: current, Bands: bands}, nil
}

// Reconstruct inverts Decompose, merging the pyramid back into a full
// resolution grid.
func Reconstruct(pyramid *Pyramid) [][]float64 {
	current := copyGrid(pyramid.LL)
	for _, band := range pyramid.Bands {
		current = merge(current, band)
	}
	return current
}

// split performs one Haar analysis step, producing the half-size LL grid and
// the detail band. Each 2x2 input block contributes one coefficient to each
// sub-band, scaled so that split and merge round-trip exactly.
func split(grid [][]float64) ([][]float64, Band) {
	half := len(grid) / 2
	ll := newGrid(half)
	band := Band{LH: newGrid(half), HL: newGrid(half), HH: newGrid(half)}
	for row := 0; row < half; row++ {
		for column := 0; column < half; column++ {
			a := grid[2*row][2*column]
			b := grid[2*row][2*column+1]
			c := grid[2*row+1][2*column]
			d := grid[2*row+1][2*column+1]
			ll[row][column] = (a + b + c + d) / 2
			band.LH[row][column] = (a + b - c - d) / 2
			band.HL[row][column] = (a - b + c - d) / 2
			band.HH[row][column] = (a - b - c + d) / 2
		}
	}
	return ll, band
}

// merge performs one Haar synthesis step, the inverse of split.
func merge(ll [][]float64, band Band) [][]float64 {
	half := len(ll)
	grid := newGrid(half * 2)
	for row := 0; row < half; row++ {
		for column := 0; column < half; column++ {
			a := ll[row][column]
			l := band.LH[row][column]
			h := band.HL[row][column]
			d := band.HH[row][column]
			grid[2*row][2*column] = (a + l + h + d) / 2
			grid[2*row][2*column+1] = (a + l - h - d) / 2
			grid[2*row+1][2*column] = (a - l + h - d) / 2
			grid[2*row+1][2*column+1] = (a - l - h + d) / 2
		}
	}
	return grid
}

func newGrid(side int) [][]float64 {
	grid := make([][]float64, side)
	for row := range grid {
		grid[row] = make([]float64, side)
	}
	return grid
}

func copyGrid(grid [][]float64) [][]float64 {
	duplicate := make([][]float64, len(grid))
	for row := range grid {
		duplicate[row] = append([]float64(nil), grid[row]...)
	}
	return duplicate
}
