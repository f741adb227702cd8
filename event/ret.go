package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
)

// RetEvent covers RET: PC := FP[0], FP := FP[1]. Grounded on
// original_source/assembly/src/event/ret.rs.
type RetEvent struct {
	Base
	FP0Val field.B32
	FP1Val uint32
}

// Fire replays this event's channel contributions.
func (e RetEvent) Fire(set *channel.Set) {
	e.pullSelf(set)
	set.State.Push(channel.StateTuple{PC: e.FP0Val, FP: e.FP1Val, TS: e.TS + 1})
	e.pullRead(set, e.FP^0, uint32(e.FP0Val))
	e.pullRead(set, e.FP^1, e.FP1Val)
}
