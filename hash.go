package imagehash

import (
	"errors"
	"fmt"
)

var (
	// ErrNilHash is returned when a distance is requested against a nil hash.
	ErrNilHash = errors.New("imagehash: other hash must not be nil")

	// ErrShapeMismatch is returned when two hashes of different bit lengths
	// are compared by distance.
	ErrShapeMismatch = errors.New("imagehash: hashes must be of the same bit length")

	// ErrHashSize is returned by the hash algorithms when the requested hash
	// size is below the supported minimum of 2.
	ErrHashSize = errors.New("imagehash: hash size must be greater than or equal to 2")
)

// Hash is the perceptual hash of an image: an immutable grid of bits stored
// in row-major order. Two hashes are comparable only if they hold the same
// number of bits.
type Hash struct {
	bits  []bool
	width int
}

// NewHash returns a hash holding the given bit grid. All rows must have the
// same length and the grid must not be empty.
func NewHash(bits [][]bool) (*Hash, error) {
	if len(bits) == 0 || len(bits[0]) == 0 {
		return nil, errors.New("imagehash: bit grid must not be empty")
	}
	width := len(bits[0])
	flat := make([]bool, 0, len(bits)*width)
	for _, row := range bits {
		if len(row) != width {
			return nil, fmt.Errorf("imagehash: ragged bit grid, row of %d bits in a grid of width %d", len(row), width)
		}
		flat = append(flat, row...)
	}
	return &Hash{bits: flat, width: width}, nil
}

// newHash wraps an already flattened, row-major bit sequence. The caller
// guarantees len(bits) is a multiple of width.
func newHash(bits []bool, width int) *Hash {
	return &Hash{bits: bits, width: width}
}

// BitLen returns the total number of bits in the hash.
func (h *Hash) BitLen() int {
	return len(h.bits)
}

// Width returns the number of columns in the bit grid.
func (h *Hash) Width() int {
	return h.width
}

// Rows returns the number of rows in the bit grid.
func (h *Hash) Rows() int {
	return len(h.bits) / h.width
}

// Bit reports the bit at the given row and column.
func (h *Hash) Bit(row, col int) bool {
	return h.bits[row*h.width+col]
}

// Distance returns the Hamming distance between h and other, the number of
// bit positions in which the two hashes differ. It fails if other is nil or
// if the hashes hold different numbers of bits.
func (h *Hash) Distance(other *Hash) (int, error) {
	if other == nil {
		return 0, ErrNilHash
	}
	if len(h.bits) != len(other.bits) {
		return 0, fmt.Errorf("%w (%d vs %d)", ErrShapeMismatch, len(h.bits), len(other.bits))
	}
	distance := 0
	for index, bit := range h.bits {
		if bit != other.bits[index] {
			distance++
		}
	}
	return distance, nil
}

// Equal reports whether h and other hold exactly the same bits. Unlike
// Distance, comparing against a nil hash is not an error, the hashes are
// simply not equal.
func (h *Hash) Equal(other *Hash) bool {
	if other == nil || len(h.bits) != len(other.bits) {
		return false
	}
	for index, bit := range h.bits {
		if bit != other.bits[index] {
			return false
		}
	}
	return true
}

// BucketKey compresses the bit grid into an 8 bit key by XOR-folding bit
// positions modulo 8. The key is deliberately lossy: unequal hashes often
// share a key, so hashed containers must resolve bucket collisions with
// Equal rather than trust the key alone.
func (h *Hash) BucketKey() uint8 {
	var key uint8
	for index, bit := range h.bits {
		if bit {
			key ^= 1 << (index % 8)
		}
	}
	return key
}

// String returns the hexadecimal form of the hash, see ToHex.
func (h *Hash) String() string {
	return ToHex(h)
}
