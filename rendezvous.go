package hashrings

import "fmt"

type rendezvousNode struct {
	item   Item
	hashes []uint64
}

// score returns the highest random weight this node gives to a point.
func (n *rendezvousNode) score(pointHash uint64) uint64 {
	best := combine(n.hashes[0], pointHash)
	for _, h := range n.hashes[1:] {
		if s := combine(h, pointHash); s > best {
			best = s
		}
	}
	return best
}

// RendezvousRing routes points with rendezvous (highest random weight)
// hashing: every node scores each point and the highest score wins.
// Lookups are O(nodes x replicas). Adding or removing a node moves exactly
// the points whose winner is the affected node; no point ever moves between
// two surviving nodes.
type RendezvousRing struct {
	nodes map[uint64]*rendezvousNode
}

// NewRendezvousRing constructs an empty ring.
func NewRendezvousRing() *RendezvousRing {
	return &RendezvousRing{
		nodes: make(map[uint64]*rendezvousNode),
	}
}

// InsertNode puts x on the ring with the given replica count. A node with
// three replicas receives approximately three times more points than a node
// with one.
func (r *RendezvousRing) InsertNode(x Item, replicas int) error {
	if replicas <= 0 {
		return fmt.Errorf("%w: replicas must be positive", ErrInvalidInput)
	}
	id := digest(x)
	if _, has := r.nodes[id]; has {
		return ErrDuplicateNode
	}
	hashes := make([]uint64, replicas)
	for i := range hashes {
		hashes[i] = digest(x, encodeSuffix(i)...)
	}
	r.nodes[id] = &rendezvousNode{item: x, hashes: hashes}
	return nil
}

// RemoveNode removes x and all its replicas from the ring.
func (r *RendezvousRing) RemoveNode(x Item) error {
	id := digest(x)
	if _, has := r.nodes[id]; !has {
		return ErrNodeNotFound
	}
	delete(r.nodes, id)
	return nil
}

// GetNode returns the node owning point p.
func (r *RendezvousRing) GetNode(p Item) (Item, error) {
	node, _, _, err := r.getNodeScore(digest(p))
	return node, err
}

// getNodeScore resolves a point hash to the winning node, its id and its
// score. Equal scores go to the node with the smaller id so that the
// winner does not depend on map iteration order.
func (r *RendezvousRing) getNodeScore(pointHash uint64) (Item, uint64, uint64, error) {
	if len(r.nodes) == 0 {
		return nil, 0, 0, ErrEmptyRing
	}
	var (
		best   *rendezvousNode
		bestID uint64
		top    uint64
	)
	for id, n := range r.nodes {
		s := n.score(pointHash)
		if best == nil || s > top || (s == top && id < bestID) {
			best = n
			bestID = id
			top = s
		}
	}
	return best.item, bestID, top, nil
}

// Has reports whether x is on the ring.
func (r *RendezvousRing) Has(x Item) bool {
	_, has := r.nodes[digest(x)]
	return has
}

// Replicas returns the replica count of node x.
func (r *RendezvousRing) Replicas(x Item) (int, error) {
	n, has := r.nodes[digest(x)]
	if !has {
		return 0, ErrNodeNotFound
	}
	return len(n.hashes), nil
}

// Len returns the number of nodes on the ring.
func (r *RendezvousRing) Len() int {
	return len(r.nodes)
}
