package isa

import (
	"github.com/petravm/petravm/event"
	"github.com/petravm/petravm/prom"
)

// registerMove binds MVVW, MVVL, MVIH, LDI.
func registerMove(i *ISA) {
	i.Register(prom.Mvvw, MoveWordHandler)
	i.Register(prom.Mvvl, MoveLongHandler)
	i.Register(prom.Mvih, MoveImmHighHandler)
	i.Register(prom.Ldi, LoadImmHandler)
}

// readOrDefer supplies ready with addr's value. If addr is already set,
// ready runs immediately against a properly-counted ReadU32 (so the
// vrom_channel push multiplicity this read requires is recorded). If
// addr hasn't been produced yet, a pending obligation is recorded
// instead (spec.md §4.4): ready runs later, when some other instruction
// writes addr, again via ReadU32 so the eventual read is still counted.
func readOrDefer(ctx Context, addr uint32, ready func(val uint32)) {
	if _, ok := ctx.ReadOptU32(addr); ok {
		val, err := ctx.ReadU32(addr)
		if err != nil {
			panic(err) // ReadOptU32 just confirmed addr is set.
		}
		ready(val)
		return
	}
	ctx.InsertPending(addr, func(uint32) {
		val, err := ctx.ReadU32(addr)
		if err != nil {
			panic(err) // InsertPending only resolves once addr is set.
		}
		ready(val)
	})
}

// MoveWordHandler implements MVVW: FP[dst] := FP[src]. If src hasn't been
// written yet, the MOVE event and its write to dst are deferred until it
// is (§4.4): this is how a caller can reference a value a callee hasn't
// produced yet.
func MoveWordHandler(ctx Context, inst prom.Instruction) error {
	dst, src := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()
	srcAddr := fp ^ uint32(src)
	dstAddr := fp ^ uint32(dst)

	readOrDefer(ctx, srcAddr, func(srcVal uint32) {
		if err := ctx.WriteU32(dstAddr, srcVal, true); err != nil {
			panic(err)
		}
		ev := event.MoveEvent{
			Base: event.NewBase(pc, fp, ts, inst),
			Kind: event.MoveWord,
			Dst:  dst, DstVal: srcVal, Src: src, SrcVal: srcVal,
		}
		ctx.Trace().AppendMove(ev)
	})
	ctx.IncrPC()
	return nil
}

// MoveLongHandler implements MVVL: FP[dst:dst+1] := FP[src:src+1] (two
// consecutive 32-bit words copied as a pair). Each word may independently
// be a forward reference; the event fires once both are known.
func MoveLongHandler(ctx Context, inst prom.Instruction) error {
	dst, src := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()
	srcAddr := fp ^ uint32(src)
	dstAddr := fp ^ uint32(dst)

	var lo, hi uint32
	remaining := 2
	emit := func() {
		if err := ctx.WriteU32(dstAddr, lo, true); err != nil {
			panic(err)
		}
		if err := ctx.WriteU32(dstAddr+1, hi, true); err != nil {
			panic(err)
		}
		ev := event.MoveEvent{
			Base: event.NewBase(pc, fp, ts, inst),
			Kind: event.MoveLong,
			Dst:  dst, DstVal: lo, DstValHigh: hi,
			Src: src, SrcVal: lo, SrcValHigh: hi,
		}
		ctx.Trace().AppendMove(ev)
	}
	readOrDefer(ctx, srcAddr, func(v uint32) {
		lo = v
		remaining--
		if remaining == 0 {
			emit()
		}
	})
	readOrDefer(ctx, srcAddr+1, func(v uint32) {
		hi = v
		remaining--
		if remaining == 0 {
			emit()
		}
	})
	ctx.IncrPC()
	return nil
}

// MoveImmHighHandler implements MVIH: FP[dst] := imm << 16, a single
// write-once store whose low 16 bits are zero. Carries no VROM read (event.MoveEvent's Fire pulls nothing for
// MoveImmHigh).
func MoveImmHighHandler(ctx Context, inst prom.Instruction) error {
	dst, imm := inst.Arg0, inst.Arg1
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	val := uint32(imm) << 16
	if err := ctx.WriteU32(fp^uint32(dst), val, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.MoveEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Kind: event.MoveImmHigh,
		Dst:  dst, DstVal: val, Imm: uint32(imm),
	}
	ctx.Trace().AppendMove(ev)
	return nil
}

// LoadImmHandler implements LDI: FP[dst] := imm, a 32-bit immediate
// assembled from two 16-bit halves the same way a jump target is (§6).
func LoadImmHandler(ctx Context, inst prom.Instruction) error {
	dst, lo, hi := inst.Arg0, inst.Arg1, inst.Arg2
	pc, fp, ts := ctx.PC(), ctx.FP(), ctx.TS()

	val := uint32(lo) | uint32(hi)<<16
	if err := ctx.WriteU32(fp^uint32(dst), val, true); err != nil {
		return err
	}
	ctx.IncrPC()

	ev := event.MoveEvent{
		Base: event.NewBase(pc, fp, ts, inst),
		Kind: event.MoveLoadImm,
		Dst:  dst, DstVal: val, Imm: val,
	}
	ctx.Trace().AppendMove(ev)
	return nil
}
