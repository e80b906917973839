package hashrings

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	intSize = 4 << (^uint(0) >> 63)
)

// Seeds for the independent hash families used by the Maglev and
// multi-probe rings.
const (
	seedOffset uint64 = 0x9ae16a3b2f90404f
	seedSkip   uint64 = 0xc3a5c85c97cb3127
)

var magic = (func() []byte {
	p := make([]byte, intSize)
	for i := range p {
		p[i] = byte(i)
	}
	return p
})()

func encodeSuffix(xs ...int) []byte {
	p := make([]byte, intSize*(len(xs)+1)) // is for zeroed value.
	copy(p, magic)
	for i, x := range xs {
		dst := p[(i+1)*intSize:]
		switch intSize {
		case 4:
			binary.LittleEndian.PutUint32(dst, uint32(x))
		case 8:
			binary.LittleEndian.PutUint64(dst, uint64(x))
		}
	}
	return p
}

// hashPool is a pool of reusable hash functions.
var hashPool = sync.Pool{
	New: func() interface{} {
		return xxhash.New()
	},
}

// digest returns the 64-bit hash of src with an optional suffix appended.
func digest(src io.WriterTo, suffix ...byte) uint64 {
	h := hashPool.Get().(*xxhash.Digest)
	defer func() {
		h.Reset()
		hashPool.Put(h)
	}()
	writeItem(h, src, suffix...)
	return h.Sum64()
}

// digestSeed returns the 64-bit hash of src prefixed with seed. Distinct
// seeds give independent hash families over the same items.
func digestSeed(seed uint64, src io.WriterTo) uint64 {
	h := hashPool.Get().(*xxhash.Digest)
	defer func() {
		h.Reset()
		hashPool.Put(h)
	}()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	h.Write(b[:]) // never fails
	writeItem(h, src)
	return h.Sum64()
}

func writeItem(w io.Writer, src io.WriterTo, suffix ...byte) {
	_, err := src.WriteTo(w)
	if err == nil && len(suffix) > 0 {
		_, err = w.Write(suffix)
	}
	if err != nil {
		panic(fmt.Sprintf("hashrings: digest error: %v", err))
	}
}

// combine mixes two 64-bit hashes into one.
func combine(x, y uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], x)
	binary.LittleEndian.PutUint64(b[8:], y)
	return xxhash.Sum64(b[:])
}

// unit maps a 64-bit hash onto [0, 1].
func unit(h uint64) float64 {
	return float64(h) / float64(math.MaxUint64)
}

func compare(x0, x1 uint64) int {
	if x0 < x1 {
		return -1
	}
	if x0 > x1 {
		return 1
	}
	return 0
}
