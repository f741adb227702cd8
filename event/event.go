// Package event defines the per-opcode-family trace records PetraVM's
// interpreter emits. Each event is an immutable fact: the pre-transition
// (PC, FP, TS), every operand address and the value read there, every
// result written, and any immediates. Fire replays an event's channel
// contributions against a channel.Set; it performs no VM mutation and no
// I/O, so the same event can be replayed identically by the validator.
package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// Event is implemented by every opcode family's record type.
type Event interface {
	// Fire pushes and pulls this event's contribution to set. It must be
	// called exactly once per event to reproduce the trace's channel
	// balance; the order of calls does not matter, since channel
	// multiplicities simply add up.
	Fire(set *channel.Set)

	// Instruction returns the decoded instruction this event was fired
	// for, so a consumer (the validator) can cross-check it against the
	// PROM's own ground truth for the same field PC.
	Instruction() prom.Instruction
}

// Base carries the fields every event needs to pull its own state_channel
// and prom_channel entries: the instruction that was executed and the
// state it was executed in.
type Base struct {
	PC   field.B32
	FP   uint32
	TS   uint32
	Inst prom.Instruction
}

func NewBase(pc field.B32, fp, ts uint32, inst prom.Instruction) Base {
	return Base{PC: pc, FP: fp, TS: ts, Inst: inst}
}

// Instruction implements Event.
func (b Base) Instruction() prom.Instruction { return b.Inst }

func (b Base) promTuple() channel.PromTuple {
	return channel.PromTuple{
		PC:     b.PC,
		Opcode: b.Inst.Opcode,
		Arg0:   b.Inst.Arg0,
		Arg1:   b.Inst.Arg1,
		Arg2:   b.Inst.Arg2,
	}
}

// pullSelf pulls this event's own prom_channel and state_channel entries,
// common to every opcode family.
func (b Base) pullSelf(set *channel.Set) {
	set.Prom.Pull(b.promTuple())
	set.State.Pull(channel.StateTuple{PC: b.PC, FP: b.FP, TS: b.TS})
}

// fireNonJump implements the state_channel transition shared by every
// opcode family that doesn't redirect control flow: pull the entry for
// (pc, fp, ts), push the entry for (G*pc, fp, ts+1). Grounded on the
// fire_non_jump_event! pattern applied throughout the original event
// implementations (e.g. sli.rs, b32.rs).
func (b Base) fireNonJump(set *channel.Set) {
	b.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: field.NextPC(b.PC), FP: b.FP, TS: b.TS + 1})
}

// pullRead pulls one vrom_channel entry for an operand this event read.
// The matching push lives in the VROM write log replay (validator), with
// multiplicity equal to the total number of reads recorded against that
// address.
func (b Base) pullRead(set *channel.Set, addr, value uint32) {
	set.Vrom.Pull(channel.VromTuple{Addr: addr, Value: value})
}
