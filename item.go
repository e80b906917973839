package hashrings

import (
	"encoding/binary"
	"io"
)

// Item is anything that can be placed on a ring as a node or routed as a
// point. The bytes it writes are its identity: two items writing the same
// bytes are the same item, and the bytes must not change while the item is
// on a ring.
type Item interface {
	io.WriterTo
}

// StringItem is an Item identified by its string value.
type StringItem string

func (s StringItem) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, string(s))
	return int64(n), err
}

// IntItem is an Item identified by its integer value.
type IntItem int

func (n IntItem) WriteTo(w io.Writer) (int64, error) {
	m, err := w.Write(encodeSuffix(int(n)))
	return int64(m), err
}

// Uint64Item is an Item identified by its uint64 value.
type Uint64Item uint64

func (n Uint64Item) WriteTo(w io.Writer) (int64, error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	m, err := w.Write(b[:])
	return int64(m), err
}
