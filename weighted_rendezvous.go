package hashrings

import (
	"fmt"
	"math"
)

type weightedRendezvousNode struct {
	item   Item
	weight float64
}

// wrScore computes the weighted highest random weight score of a node for
// a point: -w / ln(h) with h mapped onto [0, 1]. The expected share of
// points won by a node is proportional to its weight.
func wrScore(nodeID uint64, weight float64, pointHash uint64) float64 {
	return -weight / math.Log(unit(combine(nodeID, pointHash)))
}

// WeightedRendezvousRing is rendezvous hashing over real-valued weights
// instead of replica counts. Lookups are O(nodes). It has the same
// minimal-disruption property as RendezvousRing: membership changes move
// only the points won by the affected node.
type WeightedRendezvousRing struct {
	nodes map[uint64]*weightedRendezvousNode
}

// NewWeightedRendezvousRing constructs an empty ring.
func NewWeightedRendezvousRing() *WeightedRendezvousRing {
	return &WeightedRendezvousRing{
		nodes: make(map[uint64]*weightedRendezvousNode),
	}
}

// InsertNode puts x on the ring with the given weight. A node with weight
// three receives approximately three times more points than a node with
// weight one.
func (r *WeightedRendezvousRing) InsertNode(x Item, weight float64) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be positive and finite", ErrInvalidInput)
	}
	id := digest(x)
	if _, has := r.nodes[id]; has {
		return ErrDuplicateNode
	}
	r.nodes[id] = &weightedRendezvousNode{item: x, weight: weight}
	return nil
}

// RemoveNode removes x from the ring.
func (r *WeightedRendezvousRing) RemoveNode(x Item) error {
	id := digest(x)
	if _, has := r.nodes[id]; !has {
		return ErrNodeNotFound
	}
	delete(r.nodes, id)
	return nil
}

// GetNode returns the node owning point p.
func (r *WeightedRendezvousRing) GetNode(p Item) (Item, error) {
	node, _, _, err := r.getNodeScore(digest(p))
	return node, err
}

// getNodeScore resolves a point hash to the winning node, its id and its
// score. Equal scores go to the node with the smaller id.
func (r *WeightedRendezvousRing) getNodeScore(pointHash uint64) (Item, uint64, float64, error) {
	if len(r.nodes) == 0 {
		return nil, 0, 0, ErrEmptyRing
	}
	var (
		best   *weightedRendezvousNode
		bestID uint64
		top    float64
	)
	for id, n := range r.nodes {
		s := wrScore(id, n.weight, pointHash)
		if best == nil || s > top || (s == top && id < bestID) {
			best = n
			bestID = id
			top = s
		}
	}
	return best.item, bestID, top, nil
}

// Has reports whether x is on the ring.
func (r *WeightedRendezvousRing) Has(x Item) bool {
	_, has := r.nodes[digest(x)]
	return has
}

// Weight returns the weight of node x.
func (r *WeightedRendezvousRing) Weight(x Item) (float64, error) {
	n, has := r.nodes[digest(x)]
	if !has {
		return 0, ErrNodeNotFound
	}
	return n.weight, nil
}

// Len returns the number of nodes on the ring.
func (r *WeightedRendezvousRing) Len() int {
	return len(r.nodes)
}
