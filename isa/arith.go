package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/prom"
)

// registerArith binds every integer-binop opcode to ArithImmHandler or
// ArithRegHandler.
func registerArith(i *ISA) {
	for _, op := range []prom.Opcode{prom.Addi, prom.Andi, prom.Ori, prom.Xori, prom.Muli, prom.Sltiu, prom.Slti} {
		i.Register(op, ArithImmHandler)
	}
	for _, op := range []prom.Opcode{prom.Add, prom.And, prom.Or, prom.Xor, prom.Sub, prom.Mul, prom.Mulu, prom.Mulsu, prom.Sltu, prom.Slt} {
		i.Register(op, ArithRegHandler)
	}
}

// computeImm evaluates an integer-binop-immediate opcode. imm is already
// sign-extended to 32 bits for the opcodes that need a signed immediate
// (SLTI); the bitwise/arithmetic ops treat it as a raw 32-bit pattern.
func computeImm(opcode prom.Opcode, srcVal, imm uint32) (dst, cout uint32) {
	switch opcode {
	case prom.Addi:
		sum := uint64(srcVal) + uint64(imm)
		return uint32(sum), uint32(sum >> 32)
	case prom.Andi:
		return srcVal & imm, 0
	case prom.Ori:
		return srcVal | imm, 0
	case prom.Xori:
		return srcVal ^ imm, 0
	case prom.Muli:
		prod := uint64(int64(int32(srcVal))) * uint64(int64(int32(imm)))
		return uint32(prod), uint32(prod >> 32)
	case prom.Sltiu:
		if srcVal < imm {
			return 1, 0
		}
		return 0, 0
	case prom.Slti:
		if int32(srcVal) < int32(imm) {
			return 1, 0
		}
		return 0, 0
	default:
		return 0, 0
	}
}

// computeReg evaluates an integer-binop-register opcode.
func computeReg(opcode prom.Opcode, a, b uint32) (dst, cout uint32) {
	switch opcode {
	case prom.Add:
		sum := uint64(a) + uint64(b)
		return uint32(sum), uint32(sum >> 32)
	case prom.And:
		return a & b, 0
	case prom.Or:
		return a | b, 0
	case prom.Xor:
		return a ^ b, 0
	case prom.Sub:
		return a - b, 0
	case prom.Mul:
		prod := uint64(int64(int32(a))) * uint64(int64(int32(b)))
		return uint32(prod), uint32(prod >> 32)
	case prom.Mulu:
		prod := uint64(a) * uint64(b)
		return uint32(prod), uint32(prod >> 32)
	case prom.Mulsu:
		prod := uint64(int64(int32(a))) * uint64(b)
		return uint32(prod), uint32(prod >> 32)
	case prom.Sltu:
		if a < b {
			return 1, 0
		}
		return 0, 0
	case prom.Slt:
		if int32(a) < int32(b) {
			return 1, 0
		}
		return 0, 0
	default:
		return 0, 0
	}
}

// ArithImmHandler implements the integer-binop-immediate family:
// FP[dst] := FP[src] (op) imm. Grounded on
// original_source/assembly/src/integer_ops.rs's AddIEvent/MulIEvent,
// generalized to the whole family (see DESIGN.md).
func ArithImmHandler(ctx Context, inst prom.Instruction) error {
	dst, src, imm16 := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	srcVal, err := ctx.ReadU32(fp ^ uint32(src))
	if err != nil {
		return err
	}
	imm := signExtend16(imm16)
	dstVal, cout := computeImm(inst.Opcode, srcVal, imm)

	if err := ctx.WriteU32(fp^uint32(dst), dstVal, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.ArithImmEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src: src, SrcVal: srcVal, Imm: imm, Cout: cout,
	}
	ctx.Trace().AppendArithImm(ev)
	return nil
}

// ArithRegHandler implements the integer-binop-register family:
// FP[dst] := FP[src1] (op) FP[src2].
func ArithRegHandler(ctx Context, inst prom.Instruction) error {
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
	dstVal, cout := computeReg(inst.Opcode, src1Val, src2Val)

	if err := ctx.WriteU32(fp^uint32(dst), dstVal, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.ArithRegEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Dst:  dst, DstVal: dstVal, Src1: src1, Src1Val: src1Val, Src2: src2, Src2Val: src2Val, Cout: cout,
	}
	ctx.Trace().AppendArithReg(ev)
	return nil
}

// signExtend16 widens a 16-bit immediate to 32 bits, sign-extending so
// signed-comparison opcodes (SLTI) see negative immediates correctly.
func signExtend16(v uint16) uint32 {
	return uint32(int32(int16(v)))
}
