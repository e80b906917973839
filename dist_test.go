package hashrings

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// makePoints returns n distinct pseudo-random points from a fixed seed.
func makePoints(n int) []Item {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[string]bool, n)
	points := make([]Item, 0, n)
	for len(points) < n {
		s := fmt.Sprintf("%016x", rng.Uint64())
		if seen[s] {
			continue
		}
		seen[s] = true
		points = append(points, StringItem(s))
	}
	return points
}

// getDistribution resolves every point through get and returns per-node
// shares in percent.
func getDistribution(t testing.TB, get func(Item) (Item, error), points []Item) map[string]float64 {
	t.Helper()
	tmp := make(map[string]int)
	for _, p := range points {
		x, err := get(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tmp[string(x.(StringItem))]++
	}
	act := make(map[string]float64, len(tmp))
	for key, num := range tmp {
		act[key] = float64(num) / float64(len(points)) * 100
	}
	return act
}

func assertDistribution(t testing.TB, act, exp map[string]float64, prec float64) {
	t.Helper()
	for key, exp := range exp {
		act := act[key]
		diff := act - exp
		if math.Abs(diff) > prec {
			t.Errorf(
				"unexpected share for %q: %.2f%%; want %.2f%% (within %.2f, diff is %+.2f)",
				key, act, exp, prec, diff,
			)
		}
	}
	for key := range act {
		if _, ok := exp[key]; !ok {
			t.Errorf("unexpected key in distribution: %q", key)
		}
	}
}

// getOwners resolves every point through get into a point to node map.
func getOwners(t testing.TB, get func(Item) (Item, error), points []Item) map[string]string {
	t.Helper()
	owners := make(map[string]string, len(points))
	for _, p := range points {
		x, err := get(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		owners[string(p.(StringItem))] = string(x.(StringItem))
	}
	return owners
}

// assertOnlyMovedFrom checks that between two ownership snapshots, the
// only points that changed owner are those previously owned by from.
func assertOnlyMovedFrom(t testing.TB, prev, next map[string]string, from string) {
	t.Helper()
	for p, was := range prev {
		now := next[p]
		if was != from && now != was {
			t.Fatalf("point %q moved from %q to %q", p, was, now)
		}
		if now == from {
			t.Fatalf("point %q still resolves to removed node %q", p, from)
		}
	}
}

// assertOnlyMovedTo checks that between two ownership snapshots, points
// either kept their owner or moved to the newly inserted node to.
func assertOnlyMovedTo(t testing.TB, prev, next map[string]string, to string) {
	t.Helper()
	for p, was := range prev {
		now := next[p]
		if now != was && now != to {
			t.Fatalf("point %q moved from %q to %q instead of %q", p, was, now, to)
		}
	}
}
