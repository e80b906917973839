package hashrings

import (
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/avl"
)

// ringPoint is a virtual node position on the consistent ring.
type ringPoint struct {
	value uint64
	owner *ringBucket
}

func (p *ringPoint) Compare(x avl.Item) int {
	return compare(p.value, x.(*ringPoint).value)
}

// ringSearch looks up the successor of a raw hash value on the tree.
type ringSearch uint64

func (s ringSearch) Compare(x avl.Item) int {
	return compare(uint64(s), x.(*ringPoint).value)
}

// ringBucket is a physical node together with its replication count.
type ringBucket struct {
	id       uint64
	item     Item
	replicas int
}

// ConsistentRing is a consistent hashing ring with virtual nodes. Every
// node occupies as many positions on the ring as its replica count, and a
// point belongs to the first position clockwise from its hash. Lookups are
// O(log total_replicas); removing a node redistributes only the points on
// its positions to their clockwise neighbors.
//
// The zero value is an empty ring ready to use. ConsistentRing instances
// must not be copied.
type ConsistentRing struct {
	// Hash is an optional function used to build up a new 64-bit hash
	// function for position and lookup calculation. If nil, xxhash is
	// used. It must not change once the ring is non-empty.
	Hash func() hash.Hash64

	// hashPool is a pool of reusable hash functions.
	hashPool sync.Pool

	// buckets maps a node digest to its bucket.
	buckets map[uint64]*ringBucket

	// tree holds the virtual node positions.
	tree avl.Tree
}

func (r *ConsistentRing) digest(src io.WriterTo, suffix ...byte) uint64 {
	h, _ := r.hashPool.Get().(hash.Hash64)
	if h == nil {
		if r.Hash != nil {
			h = r.Hash()
		} else {
			h = xxhash.New()
		}
	}
	defer func() {
		h.Reset()
		r.hashPool.Put(h)
	}()
	writeItem(h, src, suffix...)
	return h.Sum64()
}

// InsertNode puts node x onto the ring with the given number of replicas.
// A node with three replicas receives approximately three times more
// points than a node with one. If a new position collides with an existing
// one, the position goes to x: the later insertion wins.
func (r *ConsistentRing) InsertNode(x Item, replicas int) error {
	if replicas <= 0 {
		return fmt.Errorf("%w: replicas must be positive", ErrInvalidInput)
	}
	id := r.digest(x)
	if _, has := r.buckets[id]; has {
		return ErrDuplicateNode
	}
	if r.buckets == nil {
		r.buckets = make(map[uint64]*ringBucket)
	}
	b := &ringBucket{id: id, item: x, replicas: replicas}
	r.buckets[id] = b

	tree := r.tree
	for i := 0; i < replicas; i++ {
		p := &ringPoint{
			value: r.digest(x, encodeSuffix(i)...),
			owner: b,
		}
		var existing avl.Item
		tree, existing = tree.Insert(p)
		if existing != nil {
			tree, _ = tree.Delete(existing)
			tree, _ = tree.Insert(p)
		}
	}
	r.tree = tree
	return nil
}

// RemoveNode removes node x and all its positions from the ring. Positions
// that were lost earlier to a colliding insertion are left with their
// current owner.
func (r *ConsistentRing) RemoveNode(x Item) error {
	id := r.digest(x)
	b, has := r.buckets[id]
	if !has {
		return ErrNodeNotFound
	}
	delete(r.buckets, id)

	tree := r.tree
	for i := 0; i < b.replicas; i++ {
		v := r.digest(x, encodeSuffix(i)...)
		existing := tree.Search(ringSearch(v))
		if existing == nil || existing.(*ringPoint).owner != b {
			continue
		}
		tree, _ = tree.Delete(existing)
	}
	r.tree = tree
	return nil
}

// GetNode returns the node owning point p: the owner of the smallest
// position greater than or equal to the point's hash, wrapping around to
// the smallest position on the ring.
func (r *ConsistentRing) GetNode(p Item) (Item, error) {
	d := r.digest(p)
	x := r.tree.Successor(ringSearch(d))
	if x == nil {
		x = r.tree.Min()
	}
	if x == nil {
		return nil, ErrEmptyRing
	}
	return x.(*ringPoint).owner.item, nil
}

// Has reports whether x is on the ring.
func (r *ConsistentRing) Has(x Item) bool {
	_, has := r.buckets[r.digest(x)]
	return has
}

// Replicas returns the replica count of node x.
func (r *ConsistentRing) Replicas(x Item) (int, error) {
	b, has := r.buckets[r.digest(x)]
	if !has {
		return 0, ErrNodeNotFound
	}
	return b.replicas, nil
}

// Len returns the number of nodes on the ring.
func (r *ConsistentRing) Len() int {
	return len(r.buckets)
}
