package channel

import (
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// StateTuple is an entry in the state_channel: a program-counter/
// frame-pointer/timestamp triple, per spec.md §4.7.
type StateTuple struct {
	PC field.B32
	FP uint32
	TS uint32
}

// PromTuple is an entry in the prom_channel: the decoded instruction at a
// given field PC, pushed from the Program ROM's entry once per execution of
// that PC and pulled once by each event executed there.
type PromTuple struct {
	PC     field.B32
	Opcode prom.Opcode
	Arg0   uint16
	Arg1   uint16
	Arg2   uint16
}

// VromTuple is an entry in the vrom_channel: an (address, value) pair, per
// spec.md §4.7.
type VromTuple struct {
	Addr  uint32
	Value uint32
}

// Set bundles the three channels a PetraVM trace must balance: state_channel,
// prom_channel, and vrom_channel (named to match the proving layer's own
// channel names).
type Set struct {
	State *Channel[StateTuple]
	Prom  *Channel[PromTuple]
	Vrom  *Channel[VromTuple]
}

// NewSet returns a fresh, empty channel set.
func NewSet() *Set {
	return &Set{
		State: New[StateTuple](),
		Prom:  New[PromTuple](),
		Vrom:  New[VromTuple](),
	}
}
