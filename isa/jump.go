package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// registerJump binds JUMPI and JUMPV.
func registerJump(i *ISA) {
	i.Register(prom.Jumpi, JumpImmHandler)
	i.Register(prom.Jumpv, JumpViaHandler)
}

// JumpImmHandler implements JUMPI: PC := target, target assembled from two
// 16-bit immediate halves (§6).
func JumpImmHandler(ctx Context, inst prom.Instruction) error {
	targetLo, targetHi := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	target := field.B32(uint32(targetLo) | uint32(targetHi)<<16)
	ctx.JumpTo(target)

	ev := event.JumpEvent{
		Base: event.NewBase(pc, fp, ts, inst), Kind: event.JumpImm, Target: target,
	}
	ctx.Trace().AppendJump(ev)
	return nil
}

// JumpViaHandler implements JUMPV: PC := FP[off].
func JumpViaHandler(ctx Context, inst prom.Instruction) error {
	off := inst.Arg0
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	offVal, err := ctx.ReadU32(fp ^ uint32(off))
	if err != nil {
		return err
	}
	target := field.B32(offVal)
	ctx.JumpTo(target)

	ev := event.JumpEvent{
		Base: event.NewBase(pc, fp, ts, inst), Kind: event.JumpVia,
		Target: target, Off: off, OffVal: offVal,
	}
	ctx.Trace().AppendJump(ev)
	return nil
}
