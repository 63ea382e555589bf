package geoknn

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoknn/model"
)

var (
	// ErrInvalidInput is the root of every validation failure.
	// Use errors.Is(err, ErrInvalidInput) to detect rejected input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// invalid wraps err so that it matches ErrInvalidInput.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// NonFiniteCoordinateError indicates a node whose longitude or latitude is
// NaN or infinite.
type NonFiniteCoordinateError struct {
	Index int
	ID    string
	Coord model.Coordinate
}

func (e *NonFiniteCoordinateError) Error() string {
	return fmt.Sprintf("node %q at index %d has non-finite coordinate %v", e.ID, e.Index, e.Coord)
}

func (e *NonFiniteCoordinateError) Unwrap() error { return ErrInvalidInput }

// DuplicateIDError indicates two nodes sharing an identifier.
// It is only raised when duplicate rejection is enabled.
type DuplicateIDError struct {
	ID     string
	First  int
	Second int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q at indices %d and %d", e.ID, e.First, e.Second)
}

func (e *DuplicateIDError) Unwrap() error { return ErrInvalidInput }

// NodeIndexError indicates a node position outside the node set.
type NodeIndexError struct {
	Index int
	Len   int
}

func (e *NodeIndexError) Error() string {
	return fmt.Sprintf("node index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *NodeIndexError) Unwrap() error { return ErrInvalidInput }
