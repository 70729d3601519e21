package imagehash

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestColorHashBinBitsValidation(t *testing.T) {
	img := solidImage(color.RGBA{R: 255, A: 255})
	for _, binbits := range []int{-1, 0} {
		if _, err := ColorHash(img, binbits); !errors.Is(err, ErrBinBits) {
			t.Errorf("binbits %d: got %v, want ErrBinBits", binbits, err)
		}
	}
}

func TestColorHashLength(t *testing.T) {
	img := solidImage(color.RGBA{R: 200, G: 40, B: 40, A: 255})
	for binbits := 1; binbits <= 4; binbits++ {
		hash, err := ColorHash(img, binbits)
		if err != nil {
			t.Fatalf("ColorHash failed: %v", err)
		}
		if hash.BitLen() != 14*binbits {
			t.Errorf("binbits %d: %d bits, want %d", binbits, hash.BitLen(), 14*binbits)
		}
		if hash.Width() != binbits || hash.Rows() != 14 {
			t.Errorf("binbits %d: shape %dx%d, want 14x%d", binbits, hash.Rows(), hash.Width(), binbits)
		}
	}
}

func TestColorHashSolidColors(t *testing.T) {
	// Row layout: black fraction, gray fraction, six faint hue buckets, six
	// bright hue buckets. A fully saturated value lands in its bright
	// bucket with the maximum quantized fraction.
	full := 1<<3 - 1

	rowValue := func(hash *Hash, row int) int {
		value := 0
		for column := 0; column < hash.Width(); column++ {
			value <<= 1
			if hash.Bit(row, column) {
				value |= 1
			}
		}
		return value
	}

	cases := []struct {
		name  string
		pixel color.Color
		row   int
	}{
		{"black", color.RGBA{A: 255}, 0},
		{"gray", color.RGBA{R: 128, G: 128, B: 128, A: 255}, 1},
		{"red", color.RGBA{R: 255, A: 255}, 8},
		{"green", color.RGBA{G: 255, A: 255}, 10},
		// Pure blue has a luma of 29 and would count as black, so the blue
		// sample is lifted above the darkness cutoff.
		{"blue", color.RGBA{G: 60, B: 255, A: 255}, 11},
	}
	for _, c := range cases {
		hash, err := ColorHash(solidImage(c.pixel), 3)
		if err != nil {
			t.Fatalf("%s: ColorHash failed: %v", c.name, err)
		}
		for row := 0; row < 14; row++ {
			want := 0
			if row == c.row {
				want = full
			}
			if got := rowValue(hash, row); got != want {
				t.Errorf("%s: row %d holds %d, want %d", c.name, row, got, want)
			}
		}
	}
}

func TestColorHashHexRoundTrip(t *testing.T) {
	hash, err := ColorHash(solidImage(color.RGBA{R: 90, G: 180, B: 40, A: 255}), 3)
	if err != nil {
		t.Fatalf("ColorHash failed: %v", err)
	}
	decoded, err := HexToFlatHash(hash.String(), 3)
	if err != nil {
		t.Fatalf("HexToFlatHash failed: %v", err)
	}
	if !decoded.Equal(hash) {
		t.Errorf("round trip changed the hash: %s vs %s", hash, decoded)
	}
}

func TestColorHashEmptyImage(t *testing.T) {
	if _, err := ColorHash(image.NewRGBA(image.Rect(0, 0, 0, 0)), 3); err == nil {
		t.Error("empty image accepted")
	}
}
