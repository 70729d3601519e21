package imagehash

import (
	"image"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// HashFunc computes the hash of an image. All single-grid hash algorithms in
// this package can be curried into one, which is how CropResistantHash is
// pointed at the per-segment algorithm of the caller's choice.
type HashFunc func(img image.Image) (*Hash, error)

// CropResistantOptions configures CropResistantHash. The zero value of any
// field selects its default.
type CropResistantOptions struct {
	// LimitSegments caps the number of segments that are hashed. If more
	// segments are found, only the largest ones by pixel count are kept.
	// Zero means no limit.
	LimitSegments int

	// SegmentThreshold is the brightness separating hills from valleys
	// during segmentation. It is deliberately static: deriving it from the
	// image breaks matching between an image and its crop.
	SegmentThreshold float64

	// MinSegmentSize is the minimum number of pixels for a hashable segment.
	MinSegmentSize int

	// SegmentationImageSize is the side length the image is resized to
	// before segmentation.
	SegmentationImageSize int
}

// DefaultCropResistantOptions returns the default orchestrator settings: no
// segment limit, threshold 128, minimum segment size 500 and a segmentation
// working resolution of 300x300.
func DefaultCropResistantOptions() CropResistantOptions {
	return CropResistantOptions{
		SegmentThreshold:      128,
		MinSegmentSize:        500,
		SegmentationImageSize: 300,
	}
}

// gaussianSigma is the blur strength applied before segmentation.
const gaussianSigma = 2

// CropResistantHash computes a multi-segment hash of the image, following
// the paper "Efficient Cropping-Resistant Robust Image Hashing" (DOI
// 10.1109/ARES.2014.85). The image is partitioned into bright and dark
// segments and each segment's bounding box, scaled back to the original
// resolution, is hashed on its own. Cropping an image removes or truncates
// some segments but leaves the rest intact, so enough segment hashes
// survive for MultiHash matching to succeed, where single-grid hashes
// break down after a few percent of cropping.
//
// A nil hashFunc selects DHash at size 8.
func CropResistantHash(img image.Image, hashFunc HashFunc, options CropResistantOptions) (*MultiHash, error) {
	if hashFunc == nil {
		hashFunc = func(segment image.Image) (*Hash, error) {
			return DHash(segment, 8)
		}
	}
	if options.SegmentThreshold == 0 {
		options.SegmentThreshold = 128
	}
	if options.MinSegmentSize == 0 {
		options.MinSegmentSize = 500
	}
	if options.SegmentationImageSize == 0 {
		options.SegmentationImageSize = 300
	}
	segmentationSize := options.SegmentationImageSize

	// Reduce to the working resolution and suppress noise, so the flood
	// fill is not split up by stray pixels.
	gray := imaging.Grayscale(img)
	scaled := resize.Resize(uint(segmentationSize), uint(segmentationSize), gray, resize.Lanczos3)
	blurred := imaging.Blur(scaled, gaussianSigma)
	pixels := medianFilter(pixelGrid(blurred))

	segments := findAllSegments(pixels, options.SegmentThreshold, options.MinSegmentSize)

	// If segmentation found nothing, hash the whole frame as one segment so
	// downstream matching always has something to work with.
	if len(segments) == 0 {
		segments = [][]image.Point{{
			image.Pt(0, 0),
			image.Pt(segmentationSize-1, segmentationSize-1),
		}}
	}

	if options.LimitSegments > 0 && len(segments) > options.LimitSegments {
		sort.SliceStable(segments, func(i, j int) bool {
			return len(segments[i]) > len(segments[j])
		})
		segments = segments[:options.LimitSegments]
	}

	// Segment hashes are independent, so compute them concurrently. The
	// indexed result slice keeps segment order deterministic.
	bounds := img.Bounds()
	scaleX := float64(bounds.Dx()) / float64(segmentationSize)
	scaleY := float64(bounds.Dy()) / float64(segmentationSize)
	hashes := make([]*Hash, len(segments))
	errs := make([]error, len(segments))
	var group sync.WaitGroup
	for index, segment := range segments {
		group.Add(1)
		go func(index int, segment []image.Point) {
			defer group.Done()
			box := boundingBox(segment)
			cropped := imaging.Crop(img, image.Rect(
				bounds.Min.X+int(float64(box.Min.X)*scaleX),
				bounds.Min.Y+int(float64(box.Min.Y)*scaleY),
				bounds.Min.X+int(float64(box.Max.X)*scaleX),
				bounds.Min.Y+int(float64(box.Max.Y)*scaleY),
			))
			hashes[index], errs[index] = hashFunc(cropped)
		}(index, segment)
	}
	group.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return NewMultiHash(hashes)
}
