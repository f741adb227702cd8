package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
)

// BnzEvent is emitted when a BNZ instruction's condition is non-zero: the
// branch is taken. Grounded on
// original_source/assembly/src/event/model/branch.rs's BnzEvent.
type BnzEvent struct {
	Base
	Cond    uint16
	CondVal uint32
	Target  field.B32
}

// Fire replays this event's channel contributions: pull the current state,
// push the branch target rather than G*PC.
func (e BnzEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: e.Target, FP: e.FP, TS: e.TS + 1})
	e.pullRead(set, e.FP^uint32(e.Cond), e.CondVal)
}

// BzEvent is BNZ's fallthrough twin, emitted when the condition is zero.
// The proving layer treats it as a distinct opcode from BnzEvent because
// its arithmetic constraints differ (spec.md §4.6).
type BzEvent struct {
	Base
	Cond    uint16
	CondVal uint32
}

// Fire replays this event's channel contributions: ordinary
// fallthrough-to-G*PC transition.
func (e BzEvent) Fire(set *channel.Set) {
	e.fireNonJump(set)
	e.pullRead(set, e.FP^uint32(e.Cond), e.CondVal)
}

// JumpKind distinguishes JUMPI (immediate target) from JUMPV (target read
// from a VROM slot).
type JumpKind uint8

const (
	JumpImm JumpKind = iota
	JumpVia
)

// JumpEvent covers JUMPI and JUMPV: an unconditional PC set.
type JumpEvent struct {
	Base
	Kind   JumpKind
	Target field.B32
	// Off and OffVal are populated for JUMPV only: Target was read from
	// FP[Off].
	Off    uint16
	OffVal uint32
}

// Fire replays this event's channel contributions.
func (e JumpEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: e.Target, FP: e.FP, TS: e.TS + 1})
	if e.Kind == JumpVia {
		e.pullRead(set, e.FP^uint32(e.Off), e.OffVal)
	}
}
