package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
)

// registerBranch binds BNZ. The runtime condition decides which of the two
// events (BnzEvent/BzEvent) fires; both share the BNZ opcode (spec.md
// §4.6's BNZ/BZ split).
func registerBranch(i *ISA) {
	i.Register(prom.Bnz, BnzHandler)
}

// BnzHandler implements BNZ: if FP[cond] != 0, PC := target; else
// PC := G*PC.
func BnzHandler(ctx Context, inst prom.Instruction) error {
	cond, targetLo, targetHi := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	condVal, err := ctx.ReadU32(fp ^ uint32(cond))
	if err != nil {
		return err
	}

	if condVal != 0 {
		target := field.B32(uint32(targetLo) | uint32(targetHi)<<16)
		ctx.JumpTo(target)
		ev := event.BnzEvent{
			Base: event.NewBase(pc, fp, ts, inst),
			Cond: cond, CondVal: condVal, Target: target,
		}
		ctx.Trace().AppendBnz(ev)
		return nil
	}

	ctx.IncrPC()
	ev := event.BzEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Cond: cond, CondVal: condVal,
	}
	ctx.Trace().AppendBz(ev)
	return nil
}
