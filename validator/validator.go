// Package validator implements PetraVM's post-execution correctness
// check: replaying a frozen trace's channel pushes and pulls and
// confirming every channel nets to zero (spec.md §4.7). It never
// touches VROM or re-executes opcode semantics; it only replays the
// bookkeeping each event already recorded when it fired.
package validator

import (
	"fmt"

	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
	"github.com/petravm/petravm/trace"
)

// Result reports whether a trace's channels balance, and the offending
// tuples when they don't.
type Result struct {
	OK bool

	StateUnbalanced map[channel.StateTuple]int
	PromUnbalanced  map[channel.PromTuple]int
	VromUnbalanced  map[channel.VromTuple]int
}

// BadEventPcError is returned when an event's field PC doesn't resolve
// to a ROM instruction: the trace references a PC no valid execution
// could have fetched.
type BadEventPcError struct {
	PC field.B32
}

// Error implements the error interface.
func (e BadEventPcError) Error() string {
	return fmt.Sprintf("validator: event references unmapped field pc %v", e.PC)
}

// Validate re-simulates state_channel, prom_channel, and vrom_channel
// from tr against rom's static instruction table and reports whether
// every channel balances.
//
// prom_channel's push side comes from rom itself (the ground truth for
// what instruction actually lives at a field PC), not from the event's
// own copy of that data — so a trace whose event recorded a stale or
// corrupted instruction fails to balance instead of trivially
// cancelling against itself. vrom_channel's push side comes from the
// write log, each entry pushed once per recorded read (the multiplicity
// spec.md §4.7 assigns it). state_channel is seeded by one external push
// of the boundary's initial tuple and drained by one external pull of
// its final tuple.
func Validate(tr *trace.Trace, rom *prom.ROM) (*Result, error) {
	set := channel.NewSet()

	set.State.Push(channel.StateTuple{
		PC: tr.Boundary.InitialPC, FP: tr.Boundary.InitialFP, TS: tr.Boundary.InitialTS,
	})

	for _, entry := range tr.WriteLog {
		for n := 0; n < entry.Reads; n++ {
			set.Vrom.Push(channel.VromTuple{Addr: entry.Addr, Value: entry.Value})
		}
	}

	for _, ev := range tr.Events() {
		inst := ev.Instruction()
		idx, ok := rom.IndexForFieldPC(inst.PC)
		if !ok {
			return nil, BadEventPcError{PC: inst.PC}
		}
		romInst, ok := rom.At(idx)
		if !ok {
			return nil, BadEventPcError{PC: inst.PC}
		}
		set.Prom.Push(channel.PromTuple{
			PC: romInst.PC, Opcode: romInst.Opcode,
			Arg0: romInst.Arg0, Arg1: romInst.Arg1, Arg2: romInst.Arg2,
		})
		ev.Fire(set)
	}

	set.State.Pull(channel.StateTuple{
		PC: tr.Boundary.FinalPC, FP: tr.Boundary.FinalFP, TS: tr.Boundary.FinalTS,
	})

	res := &Result{
		StateUnbalanced: set.State.Unbalanced(),
		PromUnbalanced:  set.Prom.Unbalanced(),
		VromUnbalanced:  set.Vrom.Unbalanced(),
	}
	res.OK = len(res.StateUnbalanced) == 0 && len(res.PromUnbalanced) == 0 && len(res.VromUnbalanced) == 0
	return res, nil
}
