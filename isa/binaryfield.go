package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// registerBinaryField binds B32_MUL, B32_MULI, B128_ADD, B128_MUL.
func registerBinaryField(i *ISA) {
	i.Register(prom.B32Mul, B32MulHandler)
	i.Register(prom.B32Muli, B32MulHandler)
	i.Register(prom.B128Add, B128AddHandler)
	i.Register(prom.B128Mul, B128MulHandler)
}

// B32MulHandler implements B32_MUL (FP[dst] := FP[src1] * FP[src2] in
// GF(2^32)) and B32_MULI (FP[dst] := FP[src] * imm). The immediate form's
// 16-bit argument is zero-extended into the low half of the field element
// being multiplied by; B32_MULI has no way to take a wider immediate.
func B32MulHandler(ctx Context, inst prom.Instruction) error {
	dst, src1, arg2 := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()
	isImm := inst.Opcode == prom.B32Muli

	src1Val, err := ctx.ReadU32(fp ^ uint32(src1))
	if err != nil {
		return err
	}

	var src2 uint16
	var src2Val, imm field.B32
	if isImm {
		imm = field.B32(arg2)
	} else {
		src2 = arg2
		src2Val, err = ctx.ReadU32(fp ^ uint32(arg2))
		if err != nil {
			return err
		}
	}

	operand := src2Val
	if isImm {
		operand = imm
	}
	dstVal := field.Mul32(src1Val, operand)

	if err := ctx.WriteU32(fp^uint32(dst), dstVal, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.B32MulEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal,
		Src1: src1, Src1Val: src1Val,
		Src2: src2, Src2Val: src2Val,
		Imm: imm, IsImm: isImm,
	}
	ctx.Trace().AppendB32Mul(ev)
	return nil
}

func readB128(ctx Context, addr uint32) (field.B128, error) {
	hi, lo, err := ctx.ReadU128(addr)
	if err != nil {
		return field.B128{}, err
	}
	return field.B128{Hi: hi, Lo: lo}, nil
}

// B128AddHandler implements B128_ADD: FP[dst] := FP[src1] + FP[src2] in
// GF(2^128).
func B128AddHandler(ctx Context, inst prom.Instruction) error {
	dst, src1, src2 := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	src1Val, err := readB128(ctx, fp^uint32(src1))
	if err != nil {
		return err
	}
	src2Val, err := readB128(ctx, fp^uint32(src2))
	if err != nil {
		return err
	}
	dstVal := field.Add128(src1Val, src2Val)

	if err := ctx.WriteU128(fp^uint32(dst), dstVal.Hi, dstVal.Lo, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.B128AddEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src1: src1, Src1Val: src1Val, Src2: src2, Src2Val: src2Val,
	}
	ctx.Trace().AppendB128Add(ev)
	return nil
}

// B128MulHandler implements B128_MUL: FP[dst] := FP[src1] * FP[src2] in
// GF(2^128).
func B128MulHandler(ctx Context, inst prom.Instruction) error {
	dst, src1, src2 := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	src1Val, err := readB128(ctx, fp^uint32(src1))
	if err != nil {
		return err
	}
	src2Val, err := readB128(ctx, fp^uint32(src2))
	if err != nil {
		return err
	}
	dstVal := field.Mul128(src1Val, src2Val)

	if err := ctx.WriteU128(fp^uint32(dst), dstVal.Hi, dstVal.Lo, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.B128MulEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src1: src1, Src1Val: src1Val, Src2: src2, Src2Val: src2Val,
	}
	ctx.Trace().AppendB128Mul(ev)
	return nil
}
