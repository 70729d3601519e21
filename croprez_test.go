package imagehash

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// sceneImage returns a size x size image with a dark background and several
// large bright rectangles, big enough to survive segmentation at the
// default working resolution.
func sceneImage(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: 30})
		}
	}
	blocks := []image.Rectangle{
		image.Rect(size/10, size/10, 4*size/10, 4*size/10),
		image.Rect(6*size/10, size/10, 9*size/10, 3*size/10),
		image.Rect(2*size/10, 6*size/10, 5*size/10, 9*size/10),
		image.Rect(7*size/10, 5*size/10, 9*size/10, 9*size/10),
	}
	for _, block := range blocks {
		for y := block.Min.Y; y < block.Max.Y; y++ {
			for x := block.Min.X; x < block.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}
	return img
}

func TestCropResistantHashSegments(t *testing.T) {
	multi, err := CropResistantHash(sceneImage(600), nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	// Four bright blocks plus the dark terrain around them.
	if segments := len(multi.Segments()); segments < 4 {
		t.Errorf("found %d segments, want at least 4", segments)
	}
	for _, segment := range multi.Segments() {
		if segment.BitLen() != 64 {
			t.Errorf("segment has %d bits, want 64 from the default DHash", segment.BitLen())
		}
	}
}

func TestCropResistantHashDeterministic(t *testing.T) {
	img := sceneImage(600)
	first, err := CropResistantHash(img, nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	second, err := CropResistantHash(img, nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("hashing is not deterministic:\n%s\n%s", first, second)
	}
}

func TestCropResistantHashLimitSegments(t *testing.T) {
	options := DefaultCropResistantOptions()
	options.LimitSegments = 2
	multi, err := CropResistantHash(sceneImage(600), nil, options)
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	if segments := len(multi.Segments()); segments != 2 {
		t.Errorf("found %d segments, want the limit of 2", segments)
	}
}

func TestCropResistantHashFallbackSegment(t *testing.T) {
	// A working resolution of 300x300 holds 90000 pixels; demanding more
	// per segment leaves nothing, which falls back to one full-frame
	// segment.
	options := DefaultCropResistantOptions()
	options.MinSegmentSize = 100000
	multi, err := CropResistantHash(sceneImage(600), nil, options)
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	if segments := len(multi.Segments()); segments != 1 {
		t.Errorf("found %d segments, want the single fallback segment", segments)
	}
}

func TestCropResistantHashCustomHashFunc(t *testing.T) {
	hashFunc := func(segment image.Image) (*Hash, error) {
		return AverageHash(segment, 4)
	}
	multi, err := CropResistantHash(sceneImage(600), hashFunc, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	for _, segment := range multi.Segments() {
		if segment.BitLen() != 16 {
			t.Errorf("segment has %d bits, want 16 from a 4x4 AverageHash", segment.BitLen())
		}
	}
}

func TestCropResistance(t *testing.T) {
	img := sceneImage(600)
	original, err := CropResistantHash(img, nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}

	// Cut 20% off each side and rehash; enough segments must survive for a
	// match with a non-maximal difference score.
	cropped := imaging.Crop(img, image.Rect(120, 120, 480, 480))
	croppedHash, err := CropResistantHash(cropped, nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}

	matched, err := croppedHash.Matches(original, DefaultMatchOptions())
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}
	if !matched {
		t.Error("cropped image does not match the original")
	}
	score, err := croppedHash.Difference(original, DefaultMatchOptions())
	if err != nil {
		t.Fatalf("Difference failed: %v", err)
	}
	if maximum := float64(len(croppedHash.Segments())); score >= maximum {
		t.Errorf("difference score %g not below the maximum %g", score, maximum)
	}
}

func TestCropResistantHashZeroOptions(t *testing.T) {
	// The zero options value behaves like the defaults.
	defaulted, err := CropResistantHash(sceneImage(600), nil, DefaultCropResistantOptions())
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	zero, err := CropResistantHash(sceneImage(600), nil, CropResistantOptions{})
	if err != nil {
		t.Fatalf("CropResistantHash failed: %v", err)
	}
	if defaulted.String() != zero.String() {
		t.Error("zero options differ from the defaults")
	}
}
