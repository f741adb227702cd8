package event

import (
	"testing"

	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

func instr(opcode prom.Opcode, pc field.B32, a0, a1, a2 uint16) prom.Instruction {
	return prom.Instruction{Opcode: opcode, Arg0: a0, Arg1: a1, Arg2: a2, PC: pc}
}

// TestArithImmEventBalancesStateAndProm replays one non-jump event against a fresh channel set seeded
// and drained externally, verifying the state_channel nets to zero exactly
// when the external push/pull mirror the event's own transition.
func TestArithImmEventBalancesStateAndProm(t *testing.T) {
	set := channel.NewSet()
	ev := ArithImmEvent{
		Base:   NewBase(7, 100, 3, instr(prom.Addi, 7, 2, 1, 5)),
		Dst:    2,
		DstVal: 10,
		Src:    1,
		SrcVal: 5,
		Imm:    5,
	}

	// External producers: the PROM table pushed this instruction once, and
	// the program's prior event pushed the (pc, fp, ts) state tuple this
	// event is about to pull.
	set.Prom.Push(channel.PromTuple{PC: 7, Opcode: prom.Addi, Arg0: 2, Arg1: 1, Arg2: 5})
	set.State.Push(channel.StateTuple{PC: 7, FP: 100, TS: 3})
	set.Vrom.Push(channel.VromTuple{Addr: 100 ^ 1, Value: 5})

	ev.Fire(set)

	// The event pulled the seeded prom/state/vrom entries and pushed the
	// next state tuple; drain that one push externally (as the next event
	// would pull it) to check full balance.
	set.State.Pull(channel.StateTuple{PC: field.NextPC(7), FP: 100, TS: 4})

	if !set.Prom.Balanced() {
		t.Errorf("prom_channel unbalanced: %v", set.Prom.Unbalanced())
	}
	if !set.State.Balanced() {
		t.Errorf("state_channel unbalanced: %v", set.State.Unbalanced())
	}
	if !set.Vrom.Balanced() {
		t.Errorf("vrom_channel unbalanced: %v", set.Vrom.Unbalanced())
	}
}

func TestBnzEventPushesTargetNotNextPC(t *testing.T) {
	set := channel.NewSet()
	ev := BnzEvent{
		Base:    NewBase(7, 100, 3, instr(prom.Bnz, 7, 2, 9, 0)),
		Cond:    2,
		CondVal: 1,
		Target:  field.B32(9),
	}
	set.Prom.Push(channel.PromTuple{PC: 7, Opcode: prom.Bnz, Arg0: 2, Arg1: 9, Arg2: 0})
	set.State.Push(channel.StateTuple{PC: 7, FP: 100, TS: 3})
	set.Vrom.Push(channel.VromTuple{Addr: 100 ^ 2, Value: 1})

	ev.Fire(set)
	set.State.Pull(channel.StateTuple{PC: 9, FP: 100, TS: 4})

	if !set.Prom.Balanced() || !set.State.Balanced() || !set.Vrom.Balanced() {
		t.Fatalf("channels not balanced after BnzEvent: prom=%v state=%v vrom=%v",
			set.Prom.Unbalanced(), set.State.Unbalanced(), set.Vrom.Unbalanced())
	}
}

func TestBzEventAdvancesByG(t *testing.T) {
	set := channel.NewSet()
	ev := BzEvent{
		Base:    NewBase(7, 100, 3, instr(prom.Bnz, 7, 2, 9, 0)),
		Cond:    2,
		CondVal: 0,
	}
	set.Prom.Push(channel.PromTuple{PC: 7, Opcode: prom.Bnz, Arg0: 2, Arg1: 9, Arg2: 0})
	set.State.Push(channel.StateTuple{PC: 7, FP: 100, TS: 3})
	set.Vrom.Push(channel.VromTuple{Addr: 100 ^ 2, Value: 0})

	ev.Fire(set)
	set.State.Pull(channel.StateTuple{PC: field.NextPC(7), FP: 100, TS: 4})

	if !set.State.Balanced() {
		t.Errorf("state_channel unbalanced: %v", set.State.Unbalanced())
	}
}

func TestRetEventTransfersControlToSavedFrame(t *testing.T) {
	set := channel.NewSet()
	ev := RetEvent{
		Base:   NewBase(7, 100, 3, instr(prom.Ret, 7, 0, 0, 0)),
		FP0Val: 42,
		FP1Val: 50,
	}
	set.Prom.Push(channel.PromTuple{PC: 7, Opcode: prom.Ret})
	set.State.Push(channel.StateTuple{PC: 7, FP: 100, TS: 3})
	set.Vrom.Push(channel.VromTuple{Addr: 100, Value: 42})
	set.Vrom.Push(channel.VromTuple{Addr: 101, Value: 50})

	ev.Fire(set)
	set.State.Pull(channel.StateTuple{PC: 42, FP: 50, TS: 4})

	if !set.State.Balanced() || !set.Vrom.Balanced() {
		t.Fatalf("channels not balanced: state=%v vrom=%v", set.State.Unbalanced(), set.Vrom.Unbalanced())
	}
}

func TestTrapEventDoesNotAdvanceTimestamp(t *testing.T) {
	set := channel.NewSet()
	ev := TrapEvent{
		Base:          NewBase(7, 100, 3, instr(prom.Trap, 7, 4, 0, 0)),
		ExcSlot:       4,
		ExceptionCode: 1,
		ExceptionFP:   200,
	}
	set.Prom.Push(channel.PromTuple{PC: 7, Opcode: prom.Trap, Arg0: 4})
	set.State.Push(channel.StateTuple{PC: 7, FP: 100, TS: 3})
	set.Vrom.Push(channel.VromTuple{Addr: 100 ^ 4, Value: 1})

	ev.Fire(set)
	// A trap's pushed state keeps the pre-trap timestamp, per
	// exception.rs.
	set.State.Pull(channel.StateTuple{PC: 0, FP: 200, TS: 3})

	if !set.State.Balanced() {
		t.Errorf("state_channel unbalanced: %v", set.State.Unbalanced())
	}
}
