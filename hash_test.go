package hashrings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeSuffix(t *testing.T) {
	a := encodeSuffix(1, 2)
	b := encodeSuffix(1, 2)
	require.Equal(t, a, b)
	require.Len(t, a, 3*intSize)
	require.Equal(t, magic, a[:intSize])

	require.NotEqual(t, encodeSuffix(1), encodeSuffix(2))
	require.NotEqual(t, encodeSuffix(1, 2), encodeSuffix(2, 1))
}

func TestDigest(t *testing.T) {
	x := StringItem("foo")
	require.Equal(t, digest(x), digest(x))
	require.NotEqual(t, digest(x), digest(StringItem("bar")))
	require.NotEqual(t, digest(x), digest(x, encodeSuffix(0)...))
	require.NotEqual(t, digest(x, encodeSuffix(0)...), digest(x, encodeSuffix(1)...))
}

func TestDigestSeed(t *testing.T) {
	x := StringItem("foo")
	require.Equal(t, digestSeed(seedOffset, x), digestSeed(seedOffset, x))
	require.NotEqual(t, digestSeed(seedOffset, x), digestSeed(seedSkip, x))
	require.NotEqual(t, digestSeed(seedOffset, x), digest(x))
}

func TestCombine(t *testing.T) {
	require.Equal(t, combine(1, 2), combine(1, 2))
	require.NotEqual(t, combine(1, 2), combine(2, 1))
	require.NotEqual(t, combine(1, 2), combine(1, 3))
}

func TestUnit(t *testing.T) {
	require.Equal(t, 0.0, unit(0))
	require.Equal(t, 1.0, unit(^uint64(0)))
	u := unit(1 << 63)
	require.Greater(t, u, 0.0)
	require.Less(t, u, 1.0)
}

func TestCompare(t *testing.T) {
	require.Equal(t, -1, compare(1, 2))
	require.Equal(t, 1, compare(2, 1))
	require.Equal(t, 0, compare(2, 2))
}

func TestItemWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := StringItem("foo").WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "foo", buf.String())

	buf.Reset()
	_, err = IntItem(42).WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, encodeSuffix(42), buf.Bytes())

	buf.Reset()
	_, err = Uint64Item(42).WriteTo(&buf)
	require.NoError(t, err)
	require.Len(t, buf.Bytes(), 8)

	require.NotEqual(t, digest(IntItem(42)), digest(Uint64Item(42)))
}
