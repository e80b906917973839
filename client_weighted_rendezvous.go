package hashrings

type weightedRendezvousClientPoint struct {
	item  Item
	node  uint64
	score float64
}

// WeightedRendezvousClient tracks point assignments over a
// WeightedRendezvousRing. It behaves like RendezvousClient except that
// nodes carry weights instead of replica counts.
type WeightedRendezvousClient struct {
	ring   *WeightedRendezvousRing
	points map[uint64]*weightedRendezvousClientPoint
	nodes  map[uint64]map[uint64]Item
}

// NewWeightedRendezvousClient constructs an empty client.
func NewWeightedRendezvousClient() *WeightedRendezvousClient {
	return &WeightedRendezvousClient{
		ring:   NewWeightedRendezvousRing(),
		points: make(map[uint64]*weightedRendezvousClientPoint),
		nodes:  make(map[uint64]map[uint64]Item),
	}
}

// InsertNode puts node x onto the ring with the given weight and steals
// the tracked points that x now outscores.
func (c *WeightedRendezvousClient) InsertNode(x Item, weight float64) error {
	if err := c.ring.InsertNode(x, weight); err != nil {
		return err
	}
	id := digest(x)
	stolen := make(map[uint64]Item)
	for pid, rec := range c.points {
		s := wrScore(id, weight, pid)
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
func (c *WeightedRendezvousClient) RemoveNode(x Item) error {
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
func (c *WeightedRendezvousClient) InsertPoint(p Item) (Item, error) {
	pid := digest(p)
	node, id, score, err := c.ring.getNodeScore(pid)
	if err != nil {
		return nil, err
	}
	if _, has := c.points[pid]; has {
		return node, nil
	}
	c.points[pid] = &weightedRendezvousClientPoint{item: p, node: id, score: score}
	c.nodes[id][pid] = p
	return node, nil
}

// RemovePoint stops tracking point p. Removing an untracked point is a
// no-op.
func (c *WeightedRendezvousClient) RemovePoint(p Item) error {
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

// GetNode returns the node owning point p.
func (c *WeightedRendezvousClient) GetNode(p Item) (Item, error) {
	return c.ring.GetNode(p)
}

// GetPoints returns the tracked points assigned to node x.
func (c *WeightedRendezvousClient) GetPoints(x Item) ([]Item, error) {
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
func (c *WeightedRendezvousClient) Len() int {
	return c.ring.Len()
}

// Points returns the number of tracked points.
func (c *WeightedRendezvousClient) Points() int {
	return len(c.points)
}
