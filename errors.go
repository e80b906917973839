package hashrings

import "errors"

// Error kinds returned by rings and clients. All of them are inspectable
// with errors.Is; mutating operations never partially apply before
// returning an error.
var (
	// ErrEmptyRing is returned by lookups against a ring with no nodes,
	// and by client operations that would leave tracked points without
	// an owner.
	ErrEmptyRing = errors.New("hashrings: empty ring")

	// ErrNodeNotFound is returned when an operation references a node
	// that is not on the ring.
	ErrNodeNotFound = errors.New("hashrings: node not found")

	// ErrDuplicateNode is returned when inserting a node that is already
	// on the ring. Weights and replica counts are never updated in
	// place; remove and reinsert instead.
	ErrDuplicateNode = errors.New("hashrings: node already exists")

	// ErrInvalidInput is returned for non-positive weights, replica,
	// probe and bucket counts, and for malformed Maglev table sizes.
	ErrInvalidInput = errors.New("hashrings: invalid input")

	// ErrCapacity is returned when a Maglev table cannot seat every
	// node at least once.
	ErrCapacity = errors.New("hashrings: table too small for node set")
)
