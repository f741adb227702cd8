package interp

import (
	"fmt"

	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// BadPcError is returned when PC doesn't resolve to a valid PROM entry:
// the field value isn't in the pc_field -> index bijection, or the
// instruction at that index is Invalid.
type BadPcError struct {
	PC field.B32
}

// Error implements the error interface.
func (e BadPcError) Error() string {
	return fmt.Sprintf("interp: bad pc %#x", e.PC)
}

// UnknownOpcodeError is returned when the fetched instruction's opcode
// isn't registered in the active ISA. An Invalid instruction is reported
// as BadPcError instead.
type UnknownOpcodeError struct {
	Opcode prom.Opcode
	PC     field.B32
}

// Error implements the error interface.
func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("interp: unknown opcode %s at pc %#x", e.Opcode, e.PC)
}

// PendingNotResolvedError is returned when the interpreter halts with
// unresolved forward-reference obligations still outstanding (spec.md
// §4.4's invariant).
type PendingNotResolvedError struct {
	Addrs []uint32
}

// Error implements the error interface.
func (e PendingNotResolvedError) Error() string {
	return fmt.Sprintf("interp: %d pending vrom write(s) never resolved: %v", len(e.Addrs), e.Addrs)
}
