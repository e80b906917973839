package hashrings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRendezvousRingEmpty(t *testing.T) {
	r := NewRendezvousRing()
	_, err := r.GetNode(StringItem("p"))
	require.ErrorIs(t, err, ErrEmptyRing)
	require.Equal(t, 0, r.Len())
}

func TestRendezvousRingInsert(t *testing.T) {
	r := NewRendezvousRing()
	x := StringItem("foo")

	require.ErrorIs(t, r.InsertNode(x, 0), ErrInvalidInput)
	require.NoError(t, r.InsertNode(x, 3))
	require.ErrorIs(t, r.InsertNode(x, 1), ErrDuplicateNode)

	require.True(t, r.Has(x))
	require.Equal(t, 1, r.Len())

	replicas, err := r.Replicas(x)
	require.NoError(t, err)
	require.Equal(t, 3, replicas)

	owner, err := r.GetNode(StringItem("p"))
	require.NoError(t, err)
	require.Equal(t, x, owner)
}

func TestRendezvousRingRemove(t *testing.T) {
	r := NewRendezvousRing()
	require.ErrorIs(t, r.RemoveNode(StringItem("foo")), ErrNodeNotFound)

	require.NoError(t, r.InsertNode(StringItem("foo"), 1))
	require.NoError(t, r.RemoveNode(StringItem("foo")))
	require.False(t, r.Has(StringItem("foo")))

	_, err := r.Replicas(StringItem("foo"))
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRendezvousRingDistribution(t *testing.T) {
	r := NewRendezvousRing()
	for _, s := range []string{"foo", "bar", "baz"} {
		require.NoError(t, r.InsertNode(StringItem(s), 1))
	}
	act := getDistribution(t, r.GetNode, makePoints(30000))
	assertDistribution(t, act, map[string]float64{
		"foo": 33.3,
		"bar": 33.3,
		"baz": 33.3,
	}, 5)
}

func TestRendezvousRingReplicaDistribution(t *testing.T) {
	r := NewRendezvousRing()
	require.NoError(t, r.InsertNode(StringItem("foo"), 1))
	require.NoError(t, r.InsertNode(StringItem("bar"), 3))
	act := getDistribution(t, r.GetNode, makePoints(30000))
	assertDistribution(t, act, map[string]float64{
		"foo": 25,
		"bar": 75,
	}, 6)
}

// Highest random weight hashing moves a point only when the winning node
// itself joins or leaves.
func TestRendezvousRingRelocation(t *testing.T) {
	r := NewRendezvousRing()
	for _, s := range []string{"foo", "bar", "baz"} {
		require.NoError(t, r.InsertNode(StringItem(s), 1))
	}
	points := makePoints(2000)

	prev := getOwners(t, r.GetNode, points)
	require.NoError(t, r.InsertNode(StringItem("baq"), 1))
	next := getOwners(t, r.GetNode, points)
	assertOnlyMovedTo(t, prev, next, "baq")

	prev = next
	require.NoError(t, r.RemoveNode(StringItem("bar")))
	next = getOwners(t, r.GetNode, points)
	assertOnlyMovedFrom(t, prev, next, "bar")
}

func TestRendezvousRingDeterministic(t *testing.T) {
	r0 := NewRendezvousRing()
	r1 := NewRendezvousRing()
	for _, s := range []string{"foo", "bar", "baz"} {
		require.NoError(t, r0.InsertNode(StringItem(s), 2))
	}
	for _, s := range []string{"baz", "foo", "bar"} {
		require.NoError(t, r1.InsertNode(StringItem(s), 2))
	}
	for _, p := range makePoints(1000) {
		x0, err := r0.GetNode(p)
		require.NoError(t, err)
		x1, err := r1.GetNode(p)
		require.NoError(t, err)
		require.Equal(t, x0, x1)
	}
}
