package imagehash

import (
	"errors"
	"strings"
)

var (
	// ErrNoSegments is returned when a multi-hash involved in a comparison
	// holds no segments.
	ErrNoSegments = errors.New("imagehash: multi-hash must contain at least one segment")

	// ErrNoCandidates is returned by BestMatch when the candidate list is
	// empty.
	ErrNoCandidates = errors.New("imagehash: candidate list must not be empty")
)

// MultiHash is the crop-resistant hash of an image: one Hash per image
// segment, in segmentation discovery order. The order carries no meaning
// for matching. All segments of a multi-hash share the same bit length.
type MultiHash struct {
	segments []*Hash
}

// NewMultiHash returns a multi-hash over the given segment hashes. At least
// one segment is required and all segments must hold the same number of
// bits.
func NewMultiHash(segments []*Hash) (*MultiHash, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	bitLen := segments[0].BitLen()
	for _, segment := range segments[1:] {
		if segment.BitLen() != bitLen {
			return nil, ErrShapeMismatch
		}
	}
	return &MultiHash{segments: append([]*Hash(nil), segments...)}, nil
}

// Segments returns the per-segment hashes in segmentation order.
func (m *MultiHash) Segments() []*Hash {
	return append([]*Hash(nil), m.segments...)
}

// String returns the segment hashes in hexadecimal form, joined by commas.
// Segment hex strings never contain commas, so no length prefix is needed;
// HexToMultiHash reverses the encoding.
func (m *MultiHash) String() string {
	encoded := make([]string, len(m.segments))
	for index, segment := range m.segments {
		encoded[index] = segment.String()
	}
	return strings.Join(encoded, ",")
}

// MatchOptions configures multi-hash comparison.
type MatchOptions struct {
	// HammingCutoff is the maximum Hamming distance at which a segment of
	// this hash still counts as matching a segment of the other hash. A
	// negative value derives the cutoff from BitErrorRate instead; zero is
	// a valid cutoff demanding bit-exact segment matches.
	HammingCutoff float64

	// BitErrorRate is the fraction of segment bits allowed to differ, used
	// when HammingCutoff is negative. Zero selects the default of 0.25.
	BitErrorRate float64

	// RegionCutoff is the minimum number of matching segments for Matches
	// to report true. Values below 1 select the default of 1.
	RegionCutoff int
}

// DefaultMatchOptions returns the default comparison settings: a cutoff of
// 25% of the segment bit length and a region cutoff of 1.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		HammingCutoff: -1,
		BitErrorRate:  0.25,
		RegionCutoff:  1,
	}
}

// cutoff resolves the effective Hamming cutoff for segments of bitLen bits.
func (o MatchOptions) cutoff(bitLen int) float64 {
	if o.HammingCutoff >= 0 {
		return o.HammingCutoff
	}
	rate := o.BitErrorRate
	if rate == 0 {
		rate = 0.25
	}
	return rate * float64(bitLen)
}

// HashDiff compares m against other, segment by segment: every segment of m
// is matched to its nearest segment of other by Hamming distance, and
// segments whose nearest distance exceeds the cutoff are dropped as
// unmatched. It returns the number of matched segments and the sum of their
// distances.
//
// The relation is deliberately asymmetric: minimization runs over m's
// segments only, so m.HashDiff(other) and other.HashDiff(m) may differ.
// Consumers depend on this direction; do not symmetrize it.
func (m *MultiHash) HashDiff(other *MultiHash, options MatchOptions) (matched, sumDistance int, err error) {
	if other == nil {
		return 0, 0, ErrNilHash
	}
	if len(m.segments) == 0 || len(other.segments) == 0 {
		return 0, 0, ErrNoSegments
	}
	cutoff := options.cutoff(m.segments[0].BitLen())
	for _, segment := range m.segments {
		lowest := -1
		for _, otherSegment := range other.segments {
			distance, err := segment.Distance(otherSegment)
			if err != nil {
				return 0, 0, err
			}
			if lowest < 0 || distance < lowest {
				lowest = distance
			}
		}
		if float64(lowest) > cutoff {
			continue
		}
		matched++
		sumDistance += lowest
	}
	return matched, sumDistance, nil
}

// Matches reports whether at least RegionCutoff segments of m match a
// segment of other within the Hamming cutoff.
func (m *MultiHash) Matches(other *MultiHash, options MatchOptions) (bool, error) {
	matched, _, err := m.HashDiff(other, options)
	if err != nil {
		return false, err
	}
	regionCutoff := options.RegionCutoff
	if regionCutoff < 1 {
		regionCutoff = 1
	}
	return matched >= regionCutoff, nil
}

// Difference scores the dissimilarity of m and other. The score is at most
// the segment count of m, reached when no segment matches, and decreases
// by one per matching segment, with the average normalized Hamming
// distance of the matched segments as a tie breaker among equal match
// counts. Lower scores mean greater similarity.
func (m *MultiHash) Difference(other *MultiHash, options MatchOptions) (float64, error) {
	matched, sumDistance, err := m.HashDiff(other, options)
	if err != nil {
		return 0, err
	}
	maxDifference := float64(len(m.segments))
	if matched == 0 {
		return maxDifference, nil
	}
	maxDistance := matched * m.segments[0].BitLen()
	tieBreaker := 0 - float64(sumDistance)/float64(maxDistance)
	matchScore := float64(matched) + tieBreaker
	return maxDifference - matchScore, nil
}

// BestMatch returns the candidate with the lowest Difference score against
// m. If several candidates share the minimal score, the first one
// encountered wins; the tie order is implementation-defined.
func (m *MultiHash) BestMatch(candidates []*MultiHash, options MatchOptions) (*MultiHash, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	var best *MultiHash
	bestScore := 0.0
	for _, candidate := range candidates {
		score, err := m.Difference(candidate, options)
		if err != nil {
			return nil, err
		}
		if best == nil || score < bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}
