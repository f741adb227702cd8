package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// registerTrap binds TRAP.
func registerTrap(i *ISA) {
	i.Register(prom.Trap, TrapHandler)
}

// exceptionFrameSize is the fixed width of an exception frame: saved PC,
// saved FP, and the exception code (spec.md §4.6).
const exceptionFrameSize = 3

// TrapHandler implements TRAP exc_slot: read the exception code from
// FP^exc_slot, allocate a 3-slot exception frame, write (current PC,
// current FP, exception code) into it, and halt by setting PC to the
// terminator.
func TrapHandler(ctx Context, inst prom.Instruction) error {
	excSlot := inst.Arg0
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	codeVal, err := ctx.ReadU32(fp ^ uint32(excSlot))
	if err != nil {
		return err
	}
	if codeVal > 0xff {
		return TrapCodeInvalidError{Code: codeVal}
	}
	code := uint8(codeVal)

	excFP, err := ctx.AllocateFrame(exceptionFrameSize)
	if err != nil {
		return err
	}
	if err := ctx.WriteU32(excFP, uint32(pc), true); err != nil {
		return err
	}
	if err := ctx.WriteU32(excFP+1, fp, true); err != nil {
		return err
	}
	if err := ctx.WriteU32(excFP+2, uint32(code), true); err != nil {
		return err
	}

	ctx.SetFP(excFP)
	ctx.JumpTo(field.B32(0))

	ev := event.TrapEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		ExcSlot: excSlot, ExceptionCode: code, ExceptionFP: excFP,
	}
	ctx.Trace().AppendTrap(ev)
	return nil
}
