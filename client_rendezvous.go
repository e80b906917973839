package hashrings

// rendezvousClientPoint records a tracked point, the node it resolves to
// and the winning score. Caching the score lets node insertion test each
// point with a single score computation instead of a full lookup.
type rendezvousClientPoint struct {
	item  Item
	node  uint64
	score uint64
}

// RendezvousClient tracks point assignments over a RendezvousRing, with
// the same index structure and guarantees as ConsistentClient.
type RendezvousClient struct {
	ring   *RendezvousRing
	points map[uint64]*rendezvousClientPoint
	nodes  map[uint64]map[uint64]Item
}

// NewRendezvousClient constructs an empty client.
func NewRendezvousClient() *RendezvousClient {
	return &RendezvousClient{
		ring:   NewRendezvousRing(),
		points: make(map[uint64]*rendezvousClientPoint),
		nodes:  make(map[uint64]map[uint64]Item),
	}
}

// InsertNode puts node x onto the ring with the given replica count and
// steals the tracked points that x now outscores. Points x does not win
// keep their assignment.
func (c *RendezvousClient) InsertNode(x Item, replicas int) error {
	if err := c.ring.InsertNode(x, replicas); err != nil {
		return err
	}
	id := digest(x)
	n := c.ring.nodes[id]
	stolen := make(map[uint64]Item)
	for pid, rec := range c.points {
		s := n.score(pid)
		if s > rec.score || (s == rec.score && id < rec.node) {
			delete(c.nodes[rec.node], pid)
			stolen[pid] = rec.item
			rec.node = id
			rec.score = s
		}
	}
	c.nodes[id] = stolen
	return nil
}

// RemoveNode removes node x from the ring and re-resolves exactly the
// points that were assigned to it. Removing the last node is rejected
// with ErrEmptyRing while points are still tracked.
func (c *RendezvousClient) RemoveNode(x Item) error {
	id := digest(x)
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
		_, oid, score, err := c.ring.getNodeScore(pid)
		if err != nil {
			return err
		}
		c.nodes[oid][pid] = p
		rec := c.points[pid]
		rec.node = oid
		rec.score = score
	}
	return nil
}

// InsertPoint starts tracking point p and returns the node it resolved
// to. Inserting a point that is already tracked is a no-op.
func (c *RendezvousClient) InsertPoint(p Item) (Item, error) {
	pid := digest(p)
	node, id, score, err := c.ring.getNodeScore(pid)
	if err != nil {
		return nil, err
	}
	if _, has := c.points[pid]; has {
		return node, nil
	}
	c.points[pid] = &rendezvousClientPoint{item: p, node: id, score: score}
	c.nodes[id][pid] = p
	return node, nil
}

// RemovePoint stops tracking point p. Removing an untracked point is a
// no-op.
func (c *RendezvousClient) RemovePoint(p Item) error {
	if c.ring.Len() == 0 {
		return ErrEmptyRing
	}
	pid := digest(p)
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
func (c *RendezvousClient) GetNode(p Item) (Item, error) {
	return c.ring.GetNode(p)
}

// GetPoints returns the tracked points assigned to node x, in no
// particular order.
func (c *RendezvousClient) GetPoints(x Item) ([]Item, error) {
	set, has := c.nodes[digest(x)]
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
func (c *RendezvousClient) Len() int {
	return c.ring.Len()
}

// Points returns the number of tracked points.
func (c *RendezvousClient) Points() int {
	return len(c.points)
}
