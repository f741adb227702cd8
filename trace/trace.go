// Package trace holds the execution trace a PetraVM run produces: one
// append-only slice of events per opcode family, the frozen VROM write
// log, and the boundary values bracketing the run. A Trace is built up by
// the interpreter and, once execution halts, handed to the validator as a
// read-only object — nothing after Freeze may append to it again.
package trace

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/vrom"
)

// BoundaryValues brackets a run's state_channel: the external push that
// seeds it and the external pull that drains it (spec.md §4.7).
type BoundaryValues struct {
	InitialPC field.B32
	InitialFP uint32
	InitialTS uint32
	FinalPC   field.B32
	FinalFP   uint32
	FinalTS   uint32
}

// Trace is the complete record of one PetraVM execution: per-opcode-family
// event streams in emission order, the VROM write log, and the boundary
// values. Grounded on original_source/crates/tables/src/interpreter.rs's
// ZCrayTrace, which carries one Vec<Event> per opcode rather than a single
// interface-typed stream, so consumers (the validator, a future prover)
// can iterate a family without type assertions.
type Trace struct {
	ArithImm []event.ArithImmEvent
	ArithReg []event.ArithRegEvent
	ShiftImm []event.ShiftImmEvent
	ShiftReg []event.ShiftRegEvent
	B32Mul   []event.B32MulEvent
	B128Add  []event.B128AddEvent
	B128Mul  []event.B128MulEvent
	Move     []event.MoveEvent
	Bnz      []event.BnzEvent
	Bz       []event.BzEvent
	Jump     []event.JumpEvent
	Call     []event.CallEvent
	Tail     []event.TailEvent
	Ret      []event.RetEvent
	Trap     []event.TrapEvent

	WriteLog []vrom.WriteLogEntry
	Boundary BoundaryValues

	frozen bool
}

// New returns an empty trace seeded with the run's initial boundary
// values; FinalPC/FinalFP/FinalTS are filled in by Freeze.
func New(initialPC field.B32, initialFP uint32) *Trace {
	return &Trace{
		Boundary: BoundaryValues{
			InitialPC: initialPC,
			InitialFP: initialFP,
			InitialTS: 0,
		},
	}
}

// mustNotBeFrozen panics if called after Freeze; a frozen Trace is a
// programming-error target for further appends, not a recoverable one,
// since it would silently corrupt a trace the validator has already
// started reading.
func (t *Trace) mustNotBeFrozen() {
	if t.frozen {
		panic("trace: append after Freeze")
	}
}

// Freeze records the run's final boundary values and marks the trace
// read-only. It must be called exactly once, after the interpreter halts.
func (t *Trace) Freeze(finalPC field.B32, finalFP, finalTS uint32, writeLog []vrom.WriteLogEntry) {
	t.mustNotBeFrozen()
	t.Boundary.FinalPC = finalPC
	t.Boundary.FinalFP = finalFP
	t.Boundary.FinalTS = finalTS
	t.WriteLog = writeLog
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *Trace) Frozen() bool {
	return t.frozen
}
