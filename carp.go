package hashrings

import (
	"fmt"
	"math"
	"sort"
)

type carpNode struct {
	item   Item
	id     uint64
	weight float64

	// relativeWeight is the load coefficient derived from the full
	// weight set; valid only between rebalances.
	relativeWeight float64
}

// CARPRing implements the Cache Array Routing Protocol. Every node carries
// a relative-load coefficient computed from the whole weight set, and a
// point is routed to the node maximizing its coefficient-scaled combined
// hash. Coefficients are recomputed on every insert and remove, so both
// are O(n log n); lookups are O(n).
type CARPRing struct {
	// nodes is kept sorted by (weight, id); the coefficient recurrence
	// requires ascending weight order.
	nodes []*carpNode
	index map[uint64]*carpNode
}

// NewCARPRing constructs an empty ring.
func NewCARPRing() *CARPRing {
	return &CARPRing{
		index: make(map[uint64]*carpNode),
	}
}

// InsertNode puts x on the ring with the given weight. A node with weight
// three receives approximately three times more points than a node with
// weight one.
func (r *CARPRing) InsertNode(x Item, weight float64) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be positive and finite", ErrInvalidInput)
	}
	id := digest(x)
	if _, has := r.index[id]; has {
		return ErrDuplicateNode
	}
	n := &carpNode{item: x, id: id, weight: weight}
	r.index[id] = n
	r.nodes = append(r.nodes, n)
	r.rebalance()
	return nil
}

// RemoveNode removes x from the ring.
func (r *CARPRing) RemoveNode(x Item) error {
	id := digest(x)
	n, has := r.index[id]
	if !has {
		return ErrNodeNotFound
	}
	delete(r.index, id)
	for i, m := range r.nodes {
		if m == n {
			r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)
			break
		}
	}
	r.rebalance()
	return nil
}

// rebalance recomputes the relative-load coefficients with the recurrence
// from the CARP internet draft, normalized so the heaviest node ends up
// with coefficient 1. Must run after every membership change; lookups
// between a change and a rebalance would see stale coefficients.
func (r *CARPRing) rebalance() {
	sort.Slice(r.nodes, func(i, j int) bool {
		ni, nj := r.nodes[i], r.nodes[j]
		if ni.weight != nj.weight {
			return ni.weight < nj.weight
		}
		return ni.id < nj.id
	})
	var (
		product = 1.0
		total   = float64(len(r.nodes))
	)
	for i, n := range r.nodes {
		var res float64
		if i == 0 {
			res = math.Pow(total*n.weight, 1/total)
		} else {
			k := total - float64(i)
			res = k * (n.weight - r.nodes[i-1].weight) / product
			res += math.Pow(r.nodes[i-1].relativeWeight, k)
			res = math.Pow(res, 1/k)
		}
		product *= res
		n.relativeWeight = res
	}
	if len(r.nodes) > 0 {
		max := r.nodes[len(r.nodes)-1].relativeWeight
		for _, n := range r.nodes {
			n.relativeWeight /= max
		}
	}
}

// GetNode returns the node owning point p. Equal scores go to the node
// with the smaller id.
func (r *CARPRing) GetNode(p Item) (Item, error) {
	if len(r.nodes) == 0 {
		return nil, ErrEmptyRing
	}
	pointHash := digest(p)
	var (
		best *carpNode
		top  float64
	)
	for _, n := range r.nodes {
		s := float64(combine(n.id, pointHash)) * n.relativeWeight
		if best == nil || s > top || (s == top && n.id < best.id) {
			best = n
			top = s
		}
	}
	return best.item, nil
}

// Has reports whether x is on the ring.
func (r *CARPRing) Has(x Item) bool {
	_, has := r.index[digest(x)]
	return has
}

// Weight returns the weight of node x.
func (r *CARPRing) Weight(x Item) (float64, error) {
	n, has := r.index[digest(x)]
	if !has {
		return 0, ErrNodeNotFound
	}
	return n.weight, nil
}

// Len returns the number of nodes on the ring.
func (r *CARPRing) Len() int {
	return len(r.nodes)
}
