package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
)

// CallEvent covers CALLI and CALLV: allocate a new frame, link it to the
// caller, and transfer control. Grounded on spec.md §4.6's Call/Tail
// semantics table.
type CallEvent struct {
	Base
	Target    field.B32
	NextFPOff uint16
	NewFP     uint32
	// TargetOff/TargetOffVal are populated for CALLV only: Target was read
	// from FP[TargetOff].
	IsIndirect bool
	TargetOff  uint16
	TargetOffVal uint32
}

// Fire replays this event's channel contributions.
func (e CallEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: e.Target, FP: e.NewFP, TS: e.TS + 1})
	if e.IsIndirect {
		e.pullRead(set, e.FP^uint32(e.TargetOff), e.TargetOffVal)
	}
}

// TailEvent covers TAILI and TAILV: like Call, but the new frame's saved
// return PC/FP are copied from the *current* frame rather than computed
// fresh, so the caller is bypassed on return.
type TailEvent struct {
	Base
	Target       field.B32
	NewFP        uint32
	RetPC        field.B32
	RetFP        uint32
	IsIndirect   bool
	TargetOff    uint16
	TargetOffVal uint32
}

// Fire replays this event's channel contributions.
func (e TailEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: e.Target, FP: e.NewFP, TS: e.TS + 1})
	if e.IsIndirect {
		e.pullRead(set, e.FP^uint32(e.TargetOff), e.TargetOffVal)
	}
	e.pullRead(set, e.FP^0, e.RetPC)
	e.pullRead(set, e.FP^1, e.RetFP)
}
