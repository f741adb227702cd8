// Package isa implements PetraVM's opcode semantics as a pluggable
// dispatch table: a map from opcode to Handler, so that different ISA
// variants (a minimal recursion-only set, or the full instruction set)
// can be assembled without recompiling the interpreter. Handlers operate
// purely against the Context interface, never against a concrete
// interpreter type, which is what keeps this package free of an import
// cycle with interp (interp implements Context; isa only depends on the
// interface).
package isa

import (
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
	"github.com/petravm/petravm/trace"
)

// Context is everything an opcode handler needs: the current (PC, FP, TS)
// snapshot, typed VROM access, frame allocation, control-flow mutators,
// and the trace to append its event to. Grounded on spec.md §4.5's
// "execution context" description.
type Context interface {
	PC() field.B32
	FP() uint32
	TS() uint32

	ReadU32(addr uint32) (uint32, error)
	WriteU32(addr, val uint32, allowForward bool) error
	ReadOptU32(addr uint32) (uint32, bool)
	ReadU64(addr uint32) (uint64, error)
	WriteU64(addr uint32, val uint64, allowForward bool) error
	ReadU128(addr uint32) (hi, lo uint64, err error)
	WriteU128(addr uint32, hi, lo uint64, allowForward bool) error

	AllocateFrame(size uint32) (uint32, error)
	InsertPending(dst uint32, resolve func(uint32))

	// FrameSize looks up the frame-size table entry for a call target,
	// returning MissingFrameSizeError if target isn't keyed.
	FrameSize(target field.B32) (uint32, error)

	JumpTo(pc field.B32)
	IncrPC()
	SetFP(fp uint32)

	Trace() *trace.Trace
}

// Handler executes one decoded instruction against ctx, mutating VM state
// and appending one event to ctx.Trace(). For MVVW/MVVL whose source is not
// yet written, that event is appended later, when the source is written
// (see readOrDefer). It is the only thing
// permitted to mutate VM state (spec.md §2).
type Handler func(ctx Context, inst prom.Instruction) error

// ISA is a pluggable opcode -> Handler table.
type ISA struct {
	handlers map[prom.Opcode]Handler
}

// newEmpty returns an ISA with no opcodes registered.
func newEmpty() *ISA {
	return &ISA{handlers: make(map[prom.Opcode]Handler)}
}

// Register binds opcode to h, overwriting any existing binding.
func (i *ISA) Register(opcode prom.Opcode, h Handler) {
	i.handlers[opcode] = h
}

// Handler returns the handler bound to opcode, if any.
func (i *ISA) Handler(opcode prom.Opcode) (Handler, bool) {
	h, ok := i.handlers[opcode]
	return h, ok
}
