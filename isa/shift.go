package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/prom"
)

// registerShift binds SLLI/SRLI/SRAI and SLL/SRL/SRA.
func registerShift(i *ISA) {
	i.Register(prom.Slli, ShiftImmHandler)
	i.Register(prom.Srli, ShiftImmHandler)
	i.Register(prom.Srai, ShiftImmHandler)
	i.Register(prom.Sll, ShiftRegHandler)
	i.Register(prom.Srl, ShiftRegHandler)
	i.Register(prom.Sra, ShiftRegHandler)
}

// shiftKindFor reports whether opcode is a left or right shift.
func shiftKindFor(opcode prom.Opcode) event.ShiftKind {
	switch opcode {
	case prom.Slli, prom.Sll:
		return event.ShiftLeft
	default:
		return event.ShiftRight
	}
}

// applyShift performs the shift, honoring spec.md §4.6's masking rule: the
// logical result is 0 when the unmasked amount is 0 or >=32; otherwise the
// amount is masked to 5 bits before shifting. SRA preserves sign and has no
// 0/>=32 special case: it always shifts by the amount masked to 5 bits, so
// an amount of 32 leaves the value unchanged.
func applyShift(opcode prom.Opcode, val, amount uint32) uint32 {
	switch opcode {
	case prom.Slli, prom.Sll:
		if amount == 0 || amount >= 32 {
			return 0
		}
		return val << (amount & 0x1f)
	case prom.Srli, prom.Srl:
		if amount == 0 || amount >= 32 {
			return 0
		}
		return val >> (amount & 0x1f)
	case prom.Srai, prom.Sra:
		return uint32(int32(val) >> (amount & 0x1f))
	default:
		return 0
	}
}

// ShiftImmHandler implements SLLI, SRLI, SRAI: FP[dst] := FP[src] shifted
// by an immediate amount.
func ShiftImmHandler(ctx Context, inst prom.Instruction) error {
	dst, src, imm := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	srcVal, err := ctx.ReadU32(fp ^ uint32(src))
	if err != nil {
		return err
	}
	dstVal := applyShift(inst.Opcode, srcVal, uint32(imm))

	if err := ctx.WriteU32(fp^uint32(dst), dstVal, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.ShiftImmEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src: src, SrcVal: srcVal, Imm: imm,
		Kind: shiftKindFor(inst.Opcode),
	}
	ctx.Trace().AppendShiftImm(ev)
	return nil
}

// ShiftRegHandler implements SLL, SRL, SRA: shift amount comes from
// FP[src2], under applyShift's rule (logical shifts give 0 when the full
// value is 0 or >=32; otherwise its low 5 bits are used).
func ShiftRegHandler(ctx Context, inst prom.Instruction) error {
	dst, src1, src2 := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	src1Val, err := ctx.ReadU32(fp ^ uint32(src1))
	if err != nil {
		return err
	}
	src2Val, err := ctx.ReadU32(fp ^ uint32(src2))
	if err != nil {
		return err
	}
	dstVal := applyShift(inst.Opcode, src1Val, src2Val)

	if err := ctx.WriteU32(fp^uint32(dst), dstVal, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.ShiftRegEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src1: src1, Src1Val: src1Val, Src2: src2, Src2Val: src2Val,
		Kind: shiftKindFor(inst.Opcode),
	}
	ctx.Trace().AppendShiftReg(ev)
	return nil
}
