package hashrings

import "fmt"

const jumpMultiplier = 2862933555777941757

// JumpHash maps key to a bucket index in [0, buckets) using the
// Lamping-Veach jump consistent hash. Growing the bucket count by one
// reassigns roughly 1/buckets of the keys and never moves a key between
// two surviving buckets. It returns ErrInvalidInput when buckets is not
// positive.
func JumpHash(key uint64, buckets int) (int, error) {
	if buckets <= 0 {
		return 0, fmt.Errorf("%w: bucket count must be positive", ErrInvalidInput)
	}
	var (
		b int64 = -1
		j int64
	)
	for j < int64(buckets) {
		b = j
		key = key*jumpMultiplier + 1
		j = int64(float64(b+1) * (float64(int64(1)<<31) / float64((key>>33)+1)))
	}
	return int(b), nil
}

// JumpRing selects buckets with jump hashing. Buckets carry no identity:
// they are the contiguous indices 0..Buckets(), and callers keep their own
// index to node mapping. The ring itself holds no per-bucket state, so
// lookups are O(log buckets) time and O(1) space.
type JumpRing struct {
	buckets int
}

// NewJumpRing constructs a ring with the given number of buckets.
func NewJumpRing(buckets int) (*JumpRing, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: bucket count must be positive", ErrInvalidInput)
	}
	return &JumpRing{buckets: buckets}, nil
}

// GetBucket returns the bucket index for point p.
func (r *JumpRing) GetBucket(p Item) int {
	b, _ := JumpHash(digest(p), r.buckets)
	return b
}

// Buckets returns the number of buckets on the ring.
func (r *JumpRing) Buckets() int {
	return r.buckets
}
