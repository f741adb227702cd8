package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// registerCallRet binds CALLI, CALLV, TAILI, TAILV, and RET.
func registerCallRet(i *ISA) {
	i.Register(prom.Calli, CallImmHandler)
	i.Register(prom.Callv, CallViaHandler)
	i.Register(prom.Taili, TailImmHandler)
	i.Register(prom.Tailv, TailViaHandler)
	i.Register(prom.Ret, RetHandler)
}

// setUpFrame allocates the callee's frame and writes its linkage slots
// (new_fp[0] := retPC, new_fp[1] := retFP), per spec.md §4.6's call
// semantics.
func setUpFrame(ctx Context, target field.B32, retPC field.B32, retFP uint32) (uint32, error) {
	size, err := ctx.FrameSize(target)
	if err != nil {
		return 0, err
	}
	newFP, err := ctx.AllocateFrame(size)
	if err != nil {
		return 0, err
	}
	if err := ctx.WriteU32(newFP, uint32(retPC), true); err != nil {
		return 0, err
	}
	if err := ctx.WriteU32(newFP+1, retFP, true); err != nil {
		return 0, err
	}
	return newFP, nil
}

// CallImmHandler implements CALLI target, next_fp_off.
func CallImmHandler(ctx Context, inst prom.Instruction) error {
	targetLo, targetHi, nextFPOff := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	target := field.B32(uint32(targetLo) | uint32(targetHi)<<16)
	return finishCall(ctx, inst, pc, fp, ts, target, nextFPOff, false, 0, 0)
}

// CallViaHandler implements CALLV target_off, next_fp_off: the call target
// is read from FP[target_off] rather than encoded as an immediate.
func CallViaHandler(ctx Context, inst prom.Instruction) error {
	targetOff, nextFPOff := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	targetVal, err := ctx.ReadU32(fp ^ uint32(targetOff))
	if err != nil {
		return err
	}
	target := field.B32(targetVal)
	return finishCall(ctx, inst, pc, fp, ts, target, nextFPOff, true, targetOff, targetVal)
}

func finishCall(ctx Context, inst prom.Instruction, pc field.B32, fp, ts uint32, target field.B32, nextFPOff uint16, isIndirect bool, targetOff uint16, targetOffVal uint32) error {
	retPC := field.NextPC(pc)
	newFP, err := setUpFrame(ctx, target, retPC, fp)
	if err != nil {
		return err
	}
	if err := ctx.WriteU32(fp^uint32(nextFPOff), newFP, true); err != nil {
		return err
	}
	ctx.JumpTo(target)
	ctx.SetFP(newFP)

	ev := event.CallEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Target: target, NextFPOff: nextFPOff, NewFP: newFP,
		IsIndirect: isIndirect, TargetOff: targetOff, TargetOffVal: targetOffVal,
	}
	ctx.Trace().AppendCall(ev)
	return nil
}

// TailImmHandler implements TAILI target: like CALLI, but the callee's
// linkage slots are copied from the *current* frame so the caller is
// bypassed on return.
func TailImmHandler(ctx Context, inst prom.Instruction) error {
	targetLo, targetHi := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	target := field.B32(uint32(targetLo) | uint32(targetHi)<<16)
	return finishTail(ctx, inst, pc, fp, ts, target, false, 0, 0)
}

// TailViaHandler implements TAILV target_off.
func TailViaHandler(ctx Context, inst prom.Instruction) error {
	targetOff := inst.Arg0
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	targetVal, err := ctx.ReadU32(fp ^ uint32(targetOff))
	if err != nil {
		return err
	}
	target := field.B32(targetVal)
	return finishTail(ctx, inst, pc, fp, ts, target, true, targetOff, targetVal)
}

func finishTail(ctx Context, inst prom.Instruction, pc field.B32, fp, ts uint32, target field.B32, isIndirect bool, targetOff uint16, targetOffVal uint32) error {
	retPCVal, err := ctx.ReadU32(fp ^ 0)
	if err != nil {
		return err
	}
	retFP, err := ctx.ReadU32(fp ^ 1)
	if err != nil {
		return err
	}
	retPC := field.B32(retPCVal)

	newFP, err := setUpFrame(ctx, target, retPC, retFP)
	if err != nil {
		return err
	}
	ctx.JumpTo(target)
	ctx.SetFP(newFP)

	ev := event.TailEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Target: target, NewFP: newFP, RetPC: retPC, RetFP: retFP,
		IsIndirect: isIndirect, TargetOff: targetOff, TargetOffVal: targetOffVal,
	}
	ctx.Trace().AppendTail(ev)
	return nil
}

// RetHandler implements RET: PC := FP[0], FP := FP[1].
func RetHandler(ctx Context, inst prom.Instruction) error {
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	fp0Val, err := ctx.ReadU32(fp ^ 0)
	if err != nil {
		return err
	}
	fp1Val, err := ctx.ReadU32(fp ^ 1)
	if err != nil {
		return err
	}

	retPC := field.B32(fp0Val)
	ctx.JumpTo(retPC)
	ctx.SetFP(fp1Val)

	ev := event.RetEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		FP0Val: retPC, FP1Val: fp1Val,
	}
	ctx.Trace().AppendRet(ev)
	return nil
}
