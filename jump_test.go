package hashrings

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJumpHashInvalidBuckets(t *testing.T) {
	for _, buckets := range []int{0, -1} {
		_, err := JumpHash(42, buckets)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestJumpHashRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, buckets := range []int{1, 2, 3, 16, 1000} {
		for i := 0; i < 1000; i++ {
			b, err := JumpHash(rng.Uint64(), buckets)
			require.NoError(t, err)
			require.GreaterOrEqual(t, b, 0)
			require.Less(t, b, buckets)
		}
	}
}

func TestJumpHashSingleBucket(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		b, err := JumpHash(rng.Uint64(), 1)
		require.NoError(t, err)
		require.Equal(t, 0, b)
	}
}

// Growing the bucket count must keep every key in place or move it to the
// newly added bucket, never between two surviving buckets.
func TestJumpHashMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := make([]uint64, 1000)
	for i := range keys {
		keys[i] = rng.Uint64()
	}
	for buckets := 1; buckets < 32; buckets++ {
		for _, key := range keys {
			prev, err := JumpHash(key, buckets)
			require.NoError(t, err)
			next, err := JumpHash(key, buckets+1)
			require.NoError(t, err)
			if next != prev && next != buckets {
				t.Fatalf(
					"key %d moved from bucket %d to %d when bucket %d was added",
					key, prev, next, buckets,
				)
			}
		}
	}
}

func TestJumpRing(t *testing.T) {
	_, err := NewJumpRing(0)
	require.ErrorIs(t, err, ErrInvalidInput)

	r, err := NewJumpRing(10)
	require.NoError(t, err)
	require.Equal(t, 10, r.Buckets())

	counts := make([]int, r.Buckets())
	for _, p := range makePoints(20000) {
		b := r.GetBucket(p)
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, r.Buckets())
		counts[b]++
	}
	for b, c := range counts {
		share := float64(c) / 20000 * 100
		if share < 5 || share > 15 {
			t.Fatalf("bucket %d got %.2f%% of points; want around 10%%", b, share)
		}
	}
}
