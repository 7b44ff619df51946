package buddy

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is matched (errors.Is) by every allocation failure.
	ErrOutOfMemory = errors.New("buddy: out of memory")

	// ErrInvalidPowers is returned by New for an unusable (minP, maxP) pair.
	ErrInvalidPowers = errors.New("buddy: invalid block powers")

	// ErrCorrupt is returned by Validate when the status vector breaks a tree invariant.
	ErrCorrupt = errors.New("buddy: corrupt status tree")
)

// OutOfMemoryError describes a request the tree could not place.
// Block is the rounded block size (0 when the request exceeds the arena).
type OutOfMemoryError struct {
	Requested int
	Block     int
	Arena     int
}

func (e *OutOfMemoryError) Error() string {
	if e.Block == 0 {
		return fmt.Sprintf("buddy: out of memory: request of %d bytes exceeds arena of %d bytes", e.Requested, e.Arena)
	}
	return fmt.Sprintf("buddy: out of memory: no free %d-byte block for request of %d bytes", e.Block, e.Requested)
}

// Is makes errors.Is(err, ErrOutOfMemory) report true.
func (e *OutOfMemoryError) Is(target error) bool { return target == ErrOutOfMemory }
