package hashrings

// consistentClientPoint records a tracked point and the node it currently
// resolves to.
type consistentClientPoint struct {
	item Item
	node uint64
}

// ConsistentClient tracks point assignments over a ConsistentRing. It
// keeps a point to node index and its exact inverse, so finding all points
// on a node is a map lookup, and a membership change re-resolves only the
// points whose owner was affected.
type ConsistentClient struct {
	ring   *ConsistentRing
	points map[uint64]*consistentClientPoint
	nodes  map[uint64]map[uint64]Item
}

// NewConsistentClient constructs an empty client.
func NewConsistentClient() *ConsistentClient {
	return &ConsistentClient{
		ring:   &ConsistentRing{},
		points: make(map[uint64]*consistentClientPoint),
		nodes:  make(map[uint64]map[uint64]Item),
	}
}

// InsertNode puts node x onto the ring with the given number of replicas
// and moves the tracked points that x now owns. Points owned by other
// nodes keep their assignment.
func (c *ConsistentClient) InsertNode(x Item, replicas int) error {
	if err := c.ring.InsertNode(x, replicas); err != nil {
		return err
	}
	c.nodes[c.ring.digest(x)] = make(map[uint64]Item)
	for pid, rec := range c.points {
		owner, err := c.ring.GetNode(rec.item)
		if err != nil {
			return err
		}
		oid := c.ring.digest(owner)
		if oid == rec.node {
			continue
		}
		delete(c.nodes[rec.node], pid)
		c.nodes[oid][pid] = rec.item
		rec.node = oid
	}
	return nil
}

// RemoveNode removes node x from the ring and re-resolves exactly the
// points that were assigned to it. Removing the last node is rejected
// with ErrEmptyRing while points are still tracked.
func (c *ConsistentClient) RemoveNode(x Item) error {
	id := c.ring.digest(x)
	if _, has := c.nodes[id]; !has {
		return ErrNodeNotFound
	}
	if c.ring.Len() == 1 && len(c.points) > 0 {
		return ErrEmptyRing
	}
	if err := c.ring.RemoveNode(x); err != nil {
		return err
	}
	moved := c.nodes[id]
	delete(c.nodes, id)
	for pid, p := range moved {
		owner, err := c.ring.GetNode(p)
		if err != nil {
			return err
		}
		oid := c.ring.digest(owner)
		c.nodes[oid][pid] = p
		c.points[pid].node = oid
	}
	return nil
}

// InsertPoint starts tracking point p and returns the node it resolved
// to. Inserting a point that is already tracked is a no-op.
func (c *ConsistentClient) InsertPoint(p Item) (Item, error) {
	owner, err := c.ring.GetNode(p)
	if err != nil {
		return nil, err
	}
	pid := c.ring.digest(p)
	if _, has := c.points[pid]; has {
		return owner, nil
	}
	oid := c.ring.digest(owner)
	c.points[pid] = &consistentClientPoint{item: p, node: oid}
	c.nodes[oid][pid] = p
	return owner, nil
}

// RemovePoint stops tracking point p. Removing an untracked point is a
// no-op.
func (c *ConsistentClient) RemovePoint(p Item) error {
	if c.ring.Len() == 0 {
		return ErrEmptyRing
	}
	pid := c.ring.digest(p)
	rec, has := c.points[pid]
	if !has {
		return nil
	}
	delete(c.points, pid)
	delete(c.nodes[rec.node], pid)
	return nil
}

// GetNode returns the node owning point p. The point does not have to be
// tracked.
func (c *ConsistentClient) GetNode(p Item) (Item, error) {
	return c.ring.GetNode(p)
}

// GetPoints returns the tracked points assigned to node x, in no
// particular order.
func (c *ConsistentClient) GetPoints(x Item) ([]Item, error) {
	set, has := c.nodes[c.ring.digest(x)]
	if !has {
		return nil, ErrNodeNotFound
	}
	points := make([]Item, 0, len(set))
	for _, p := range set {
		points = append(points, p)
	}
	return points, nil
}

// Len returns the number of nodes on the ring.
func (c *ConsistentClient) Len() int {
	return c.ring.Len()
}

// Points returns the number of tracked points.
func (c *ConsistentClient) Points() int {
	return len(c.points)
}
