package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
)

// TrapEvent covers TRAP: the sole synchronous exception path. It ends
// execution but records a distinguishable final state rather than acting
// like an ordinary opcode. Grounded on
// original_source/assembly/src/event/exception.rs.
type TrapEvent struct {
	Base
	ExcSlot       uint16
	ExceptionCode uint8
	ExceptionFP   uint32
}

// Fire replays this event's channel contributions. Matching
// exception.rs's fire (state_channel.push uses the pre-trap timestamp
// unchanged, not timestamp+1 — a TRAP doesn't advance the clock the way an
// ordinary instruction does).
func (e TrapEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: field.B32(0), FP: e.ExceptionFP, TS: e.TS})
	e.pullRead(set, e.FP^uint32(e.ExcSlot), uint32(e.ExceptionCode))
}
