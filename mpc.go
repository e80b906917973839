package hashrings

import (
	"fmt"
	"math"

	"github.com/gobwas/avl"
)

// mpcPrime spaces the double-hashing probe sequence; the largest 64-bit
// prime.
const mpcPrime = 0xFFFFFFFFFFFFFFC5

// mpcPoint is a node position on the multi-probe ring.
type mpcPoint struct {
	value uint64
	item  Item
}

func (p *mpcPoint) Compare(x avl.Item) int {
	return compare(p.value, x.(*mpcPoint).value)
}

type mpcSearch uint64

func (s mpcSearch) Compare(x avl.Item) int {
	return compare(uint64(s), x.(*mpcPoint).value)
}

// MultiProbeRing implements multi-probe consistent hashing. Each node
// occupies a single position; instead of replicating nodes, every lookup
// probes the ring k times with a double-hashed sequence and keeps the node
// closest clockwise to any probe. Load balance improves with the probe
// count at O(k log n) lookup cost, with no per-node replica bookkeeping.
type MultiProbeRing struct {
	probes int
	nodes  map[uint64]*mpcPoint
	tree   avl.Tree
}

// NewMultiProbeRing constructs an empty ring probing k times per lookup.
// The original paper suggests k = 21 for a peak-to-average load ratio
// of about 1.1.
func NewMultiProbeRing(probes int) (*MultiProbeRing, error) {
	if probes <= 0 {
		return nil, fmt.Errorf("%w: probe count must be positive", ErrInvalidInput)
	}
	return &MultiProbeRing{
		probes: probes,
		nodes:  make(map[uint64]*mpcPoint),
	}, nil
}

// InsertNode puts x on the ring.
func (r *MultiProbeRing) InsertNode(x Item) error {
	v := digestSeed(seedOffset, x)
	if _, has := r.nodes[v]; has {
		return ErrDuplicateNode
	}
	p := &mpcPoint{value: v, item: x}
	r.nodes[v] = p
	r.tree, _ = r.tree.Insert(p)
	return nil
}

// RemoveNode removes x from the ring.
func (r *MultiProbeRing) RemoveNode(x Item) error {
	v := digestSeed(seedOffset, x)
	p, has := r.nodes[v]
	if !has {
		return ErrNodeNotFound
	}
	delete(r.nodes, v)
	r.tree, _ = r.tree.Delete(p)
	return nil
}

// GetNode returns the node owning point p: over all probes, the node
// position at the smallest clockwise distance from a probe hash.
func (r *MultiProbeRing) GetNode(p Item) (Item, error) {
	if len(r.nodes) == 0 {
		return nil, ErrEmptyRing
	}
	h1 := digestSeed(seedOffset, p)
	h2 := digestSeed(seedSkip, p)
	var (
		best     *mpcPoint
		bestDist uint64
	)
	for i := 0; i < r.probes; i++ {
		h := h1 + uint64(i)*h2%mpcPrime
		next := r.tree.Successor(mpcSearch(h))
		if next == nil {
			next = r.tree.Min()
		}
		np := next.(*mpcPoint)
		d := clockwiseDistance(h, np.value)
		if best == nil || d < bestDist || (d == bestDist && np.value < best.value) {
			best = np
			bestDist = d
		}
	}
	return best.item, nil
}

func clockwiseDistance(from, to uint64) uint64 {
	if from > to {
		return to + (math.MaxUint64 - from)
	}
	return to - from
}

// Has reports whether x is on the ring.
func (r *MultiProbeRing) Has(x Item) bool {
	_, has := r.nodes[digestSeed(seedOffset, x)]
	return has
}

// Probes returns the number of probes per lookup.
func (r *MultiProbeRing) Probes() int {
	return r.probes
}

// Len returns the number of nodes on the ring.
func (r *MultiProbeRing) Len() int {
	return len(r.nodes)
}
