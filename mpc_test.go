package hashrings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiProbeRingNew(t *testing.T) {
	_, err := NewMultiProbeRing(0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewMultiProbeRing(-1)
	require.ErrorIs(t, err, ErrInvalidInput)

	r, err := NewMultiProbeRing(21)
	require.NoError(t, err)
	require.Equal(t, 21, r.Probes())
	require.Equal(t, 0, r.Len())

	_, err = r.GetNode(StringItem("p"))
	require.ErrorIs(t, err, ErrEmptyRing)
}

func TestMultiProbeRingInsertRemove(t *testing.T) {
	r, err := NewMultiProbeRing(21)
	require.NoError(t, err)

	x := StringItem("foo")
	require.NoError(t, r.InsertNode(x))
	require.ErrorIs(t, r.InsertNode(x), ErrDuplicateNode)
	require.True(t, r.Has(x))
	require.Equal(t, 1, r.Len())

	owner, err := r.GetNode(StringItem("p"))
	require.NoError(t, err)
	require.Equal(t, x, owner)

	require.NoError(t, r.RemoveNode(x))
	require.ErrorIs(t, r.RemoveNode(x), ErrNodeNotFound)
	require.False(t, r.Has(x))
	require.Equal(t, 0, r.Len())
}

// With 21 probes the load should stay close to uniform even though every
// node occupies a single position.
func TestMultiProbeRingDistribution(t *testing.T) {
	r, err := NewMultiProbeRing(21)
	require.NoError(t, err)

	exp := make(map[string]float64)
	for i := 0; i < 10; i++ {
		s := fmt.Sprintf("node%02d", i)
		require.NoError(t, r.InsertNode(StringItem(s)))
		exp[s] = 10
	}
	act := getDistribution(t, r.GetNode, makePoints(30000))
	assertDistribution(t, act, exp, 5)
}

// More probes flatten the load further.
func TestMultiProbeRingProbeCount(t *testing.T) {
	spread := func(probes int) float64 {
		r, err := NewMultiProbeRing(probes)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			require.NoError(t, r.InsertNode(StringItem(fmt.Sprintf("node%02d", i))))
		}
		act := getDistribution(t, r.GetNode, makePoints(20000))
		var min, max float64 = 100, 0
		for _, share := range act {
			if share < min {
				min = share
			}
			if share > max {
				max = share
			}
		}
		return max - min
	}
	if s1, s21 := spread(1), spread(21); s21 >= s1 {
		t.Fatalf("probe count 21 spread %.2f; want below single-probe spread %.2f", s21, s1)
	}
}

func TestMultiProbeRingRelocation(t *testing.T) {
	r, err := NewMultiProbeRing(21)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, r.InsertNode(StringItem(fmt.Sprintf("node%02d", i))))
	}
	points := makePoints(2000)

	prev := getOwners(t, r.GetNode, points)
	require.NoError(t, r.RemoveNode(StringItem("node03")))
	next := getOwners(t, r.GetNode, points)
	assertOnlyMovedFrom(t, prev, next, "node03")

	prev = next
	require.NoError(t, r.InsertNode(StringItem("node99")))
	next = getOwners(t, r.GetNode, points)
	assertOnlyMovedTo(t, prev, next, "node99")
}
