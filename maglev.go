package hashrings

import (
	"fmt"
	"math"
	"math/big"
)

// MaglevNode pairs a node with its relative weight for table construction.
type MaglevNode struct {
	Item   Item
	Weight float64
}

// MaglevRing routes points through a fixed-size precomputed lookup table.
// Every node generates a preference permutation over the table slots from
// an (offset, skip) pair, and the table is filled round-robin with each
// node claiming its next preferred empty slot, up to a slot target
// proportional to its weight. Lookups are O(1); the table is immutable,
// and any membership or weight change requires building a new ring with
// the same table size. Rebuilding after a single node change reassigns
// roughly 1/nodes of the slots in expectation.
type MaglevRing struct {
	nodes  []Item
	lookup []int
}

// NewMaglevRing builds a ring over the given nodes. A tableSize of zero
// picks the next prime greater than or equal to 100 times the node count;
// an explicit tableSize must be prime and at least the node count, or the
// build is rejected with ErrInvalidInput or ErrCapacity. To preserve the
// low-disruption property across rebuilds, reuse Capacity() as the
// tableSize of the next build.
func NewMaglevRing(nodes []MaglevNode, tableSize int) (*MaglevRing, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: at least one node is required", ErrInvalidInput)
	}
	seen := make(map[uint64]bool, len(nodes))
	for _, n := range nodes {
		if n.Weight <= 0 || math.IsNaN(n.Weight) || math.IsInf(n.Weight, 0) {
			return nil, fmt.Errorf("%w: weight must be positive and finite", ErrInvalidInput)
		}
		id := digest(n.Item)
		if seen[id] {
			return nil, ErrDuplicateNode
		}
		seen[id] = true
	}

	m := tableSize
	switch {
	case m == 0:
		m = nextPrime(100 * len(nodes))
	case m < len(nodes):
		return nil, fmt.Errorf("%w: table size %d cannot seat %d nodes", ErrCapacity, m, len(nodes))
	case !isPrime(m):
		return nil, fmt.Errorf("%w: table size %d is not prime", ErrInvalidInput, m)
	}

	items := make([]Item, len(nodes))
	for i, n := range nodes {
		items[i] = n.Item
	}
	return &MaglevRing{
		nodes:  items,
		lookup: populate(nodes, m),
	}, nil
}

// populate fills the lookup table. Nodes take turns in the given order,
// each claiming the first still-empty slot of its preference permutation,
// and stop claiming once they hold their weight-proportional share
// ceil(m*w/total) of the table. The targets sum to at least m, so the
// table always fills.
func populate(nodes []MaglevNode, m int) []int {
	n := len(nodes)
	var total float64
	for _, node := range nodes {
		total += node.Weight
	}

	var (
		offset = make([]uint64, n)
		skip   = make([]uint64, n)
		target = make([]int, n)
		next   = make([]int, n)
		claims = make([]int, n)
	)
	for j, node := range nodes {
		offset[j] = digestSeed(seedOffset, node.Item) % uint64(m)
		skip[j] = digestSeed(seedSkip, node.Item)%uint64(m-1) + 1
		target[j] = int(math.Ceil(float64(m) * node.Weight / total))
	}

	entry := make([]int, m)
	for i := range entry {
		entry[i] = -1
	}

	filled := 0
	for filled < m {
		for j := 0; j < n && filled < m; j++ {
			if claims[j] >= target[j] {
				continue
			}
			c := int((offset[j] + uint64(next[j])*skip[j]) % uint64(m))
			for entry[c] != -1 {
				next[j]++
				c = int((offset[j] + uint64(next[j])*skip[j]) % uint64(m))
			}
			entry[c] = j
			next[j]++
			claims[j]++
			filled++
		}
	}
	return entry
}

// GetNode returns the node owning point p.
func (r *MaglevRing) GetNode(p Item) Item {
	index := digest(p) % uint64(len(r.lookup))
	return r.nodes[r.lookup[index]]
}

// Capacity returns the size of the lookup table.
func (r *MaglevRing) Capacity() int {
	return len(r.lookup)
}

// Len returns the number of nodes on the ring.
func (r *MaglevRing) Len() int {
	return len(r.nodes)
}

// isPrime is exact for every int that fits in 64 bits.
func isPrime(n int) bool {
	return n > 1 && big.NewInt(int64(n)).ProbablyPrime(0)
}

func nextPrime(n int) int {
	if n < 2 {
		return 2
	}
	for !isPrime(n) {
		n++
	}
	return n
}
