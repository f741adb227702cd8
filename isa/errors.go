package isa

import (
	"fmt"

	"github.com/petravm/petravm/field"
)

// MissingFrameSizeError is returned when a CALL/TAIL instruction targets a
// field PC absent from the frame-size table (spec.md §7).
type MissingFrameSizeError struct {
	Target field.B32
}

// Error implements the error interface.
func (e MissingFrameSizeError) Error() string {
	return fmt.Sprintf("isa: no frame size registered for call target %#x", e.Target)
}

// TrapCodeInvalidError is returned when TRAP's exception code doesn't fit
// the permitted u8 range.
type TrapCodeInvalidError struct {
	Code uint32
}

// Error implements the error interface.
func (e TrapCodeInvalidError) Error() string {
	return fmt.Sprintf("isa: trap exception code %d out of range for u8", e.Code)
}
