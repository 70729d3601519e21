package imagehash

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const hexDigits = "0123456789abcdef"

// ToHex encodes the hash as a hexadecimal string. The bit grid is flattened
// in row-major order and packed four bits per digit, most significant bit
// first. If the bit length is not a multiple of four, the leading digit is
// padded with zero bits. This is the only encoding ever produced; the legacy
// diagonal layout is supported for decoding only, see OldHexToHash.
func ToHex(h *Hash) string {
	digits := (len(h.bits) + 3) / 4
	pad := digits*4 - len(h.bits)
	nibbles := make([]byte, digits)
	for index, bit := range h.bits {
		if bit {
			position := pad + index
			nibbles[position/4] |= 1 << (3 - uint(position)%4)
		}
	}
	var encoded strings.Builder
	encoded.Grow(digits)
	for _, nibble := range nibbles {
		encoded.WriteByte(hexDigits[nibble])
	}
	return encoded.String()
}

// hexToBits expands a hexadecimal string into its bit sequence, most
// significant bit of each digit first.
func hexToBits(hexstr string) ([]bool, error) {
	bits := make([]bool, 0, len(hexstr)*4)
	for index := 0; index < len(hexstr); index++ {
		nibble := strings.IndexByte(hexDigits, lowerHexByte(hexstr[index]))
		if nibble < 0 {
			return nil, fmt.Errorf("imagehash: invalid hex digit %q at position %d", hexstr[index], index)
		}
		for shift := 3; shift >= 0; shift-- {
			bits = append(bits, nibble&(1<<uint(shift)) != 0)
		}
	}
	return bits, nil
}

func lowerHexByte(b byte) byte {
	if b >= 'A' && b <= 'F' {
		return b + ('a' - 'A')
	}
	return b
}

// HexToHash decodes a hexadecimal string produced by ToHex into a square
// hash. The side length is derived from the string length, so a 16 digit
// string yields an 8x8 hash. Leading padding bits are discarded.
func HexToHash(hexstr string) (*Hash, error) {
	if hexstr == "" {
		return nil, errors.New("imagehash: empty hex string")
	}
	side := int(math.Sqrt(float64(len(hexstr) * 4)))
	if side < 1 {
		return nil, fmt.Errorf("imagehash: hex string %q too short for a square hash", hexstr)
	}
	bits, err := hexToBits(hexstr)
	if err != nil {
		return nil, err
	}
	return newHash(bits[len(bits)-side*side:], side), nil
}

// HexToFlatHash decodes a hexadecimal string produced by ToHex into a hash
// of the given row width. It is meant for hashes whose grid is not square,
// such as the one produced by ColorHash, where width is the binbits value
// the hash was created with.
func HexToFlatHash(hexstr string, width int) (*Hash, error) {
	if hexstr == "" {
		return nil, errors.New("imagehash: empty hex string")
	}
	if width < 1 {
		return nil, fmt.Errorf("imagehash: invalid hash width %d", width)
	}
	rows := len(hexstr) * 4 / width
	if rows < 1 {
		return nil, fmt.Errorf("imagehash: hex string %q too short for width %d", hexstr, width)
	}
	bits, err := hexToBits(hexstr)
	if err != nil {
		return nil, err
	}
	return newHash(bits[len(bits)-rows*width:], width), nil
}

// OldHexToHash decodes a hexadecimal string in the legacy diagonal layout
// that older versions of this library produced: each pair of digits encodes
// one row of eight bits, least significant bit first. It exists for reading
// stored hashes only; re-encoding such a hash with ToHex yields the current
// row-major form. The layout cannot be detected from the string itself, so
// callers must know which format their stored strings use. The legacy layout
// only ever existed at size 8, so any other hashSize is rejected.
func OldHexToHash(hexstr string, hashSize int) (*Hash, error) {
	if hashSize != 8 {
		return nil, fmt.Errorf("imagehash: legacy hashes are 8x8 only, got size %d: %w", hashSize, ErrHashSize)
	}
	count := hashSize * (hashSize / 4)
	if len(hexstr) != count {
		return nil, fmt.Errorf("imagehash: expected %d hex digits for a legacy hash of size %d, got %d", count, hashSize, len(hexstr))
	}
	bits := make([]bool, 0, count*4)
	for index := 0; index < count/2; index++ {
		pair, err := hexToBits(hexstr[index*2 : index*2+2])
		if err != nil {
			return nil, err
		}
		// One byte per row, reading its bits back to front.
		for bit := 7; bit >= 0; bit-- {
			bits = append(bits, pair[bit])
		}
	}
	return newHash(bits, 8), nil
}

// HexToMultiHash decodes the comma-separated segment list produced by
// MultiHash.String. Each segment is decoded as a square hash via HexToHash.
func HexToMultiHash(hexstr string) (*MultiHash, error) {
	parts := strings.Split(hexstr, ",")
	segments := make([]*Hash, 0, len(parts))
	for _, part := range parts {
		segment, err := HexToHash(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return NewMultiHash(segments)
}
