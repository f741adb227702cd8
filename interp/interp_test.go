package interp

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/isa"
	"github.com/petravm/petravm/prom"
	"github.com/petravm/petravm/trace"
	"github.com/petravm/petravm/vrom"
)

func pc(n uint64) field.B32 { return field.Pow32(field.G, n) }

func splitImm(v uint32) (lo, hi uint16) {
	return uint16(v), uint16(v >> 16)
}

// TestOneInstructionRet is spec.md §8 scenario 1: a single RET with a
// pre-set (0, 0) linkage halts immediately with final_ts = 1.
func TestOneInstructionRet(t *testing.T) {
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ret, PC: pc(1)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Minimal(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tr.Boundary.FinalPC != 0 || tr.Boundary.FinalFP != 0 || tr.Boundary.FinalTS != 1 {
		t.Errorf("boundary = %+v, want final pc=0 fp=0 ts=1", tr.Boundary)
	}
	if len(tr.Ret) != 1 {
		t.Errorf("len(Ret) = %d, want 1", len(tr.Ret))
	}
}

// TestLdiThenB32MulThenRet is spec.md §8 scenario 2.
func TestLdiThenB32MulThenRet(t *testing.T) {
	lo5, hi5 := splitImm(5)
	lo2, hi2 := splitImm(2)
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: lo5, Arg2: hi5, PC: pc(1)},
		{Opcode: prom.Ldi, Arg0: 3, Arg1: lo2, Arg2: hi2, PC: pc(2)},
		{Opcode: prom.B32Mul, Arg0: 4, Arg1: 2, Arg2: 3, PC: pc(3)},
		{Opcode: prom.Ret, PC: pc(4)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Generic(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := field.Mul32(5, 2)
	if got, ok := mem.ReadOptU32(4); !ok || got != want {
		t.Errorf("FP[4] = %v, ok=%v; want %v", got, ok, want)
	}
	if len(tr.B32Mul) != 1 {
		t.Errorf("len(B32Mul) = %d, want 1", len(tr.B32Mul))
	}
}

// TestBnzTaken is spec.md §8 scenario 3.
func TestBnzTaken(t *testing.T) {
	targetLo, targetHi := splitImm(pc(4))
	oneLo, oneHi := splitImm(1)
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: oneLo, Arg2: oneHi, PC: pc(1)},
		{Opcode: prom.Bnz, Arg0: 2, Arg1: targetLo, Arg2: targetHi, PC: pc(2)},
		{Opcode: prom.Ldi, Arg0: 5, Arg1: 0, Arg2: 0, PC: pc(3)}, // skipped if branch taken
		{Opcode: prom.Ret, PC: pc(4)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Minimal(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.Bnz) != 1 || len(tr.Bz) != 0 {
		t.Errorf("bnz=%d bz=%d, want bnz=1 bz=0", len(tr.Bnz), len(tr.Bz))
	}
	if tr.Bnz[0].Target != pc(4) {
		t.Errorf("branch target = %v, want %v", tr.Bnz[0].Target, pc(4))
	}
	if _, ok := mem.ReadOptU32(5); ok {
		t.Errorf("slot 5 was written; branch should have skipped it")
	}
}

// TestBnzNotTaken is spec.md §8 scenario 4: the BZ fallthrough twin.
func TestBnzNotTaken(t *testing.T) {
	targetLo, targetHi := splitImm(pc(4))
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: 0, Arg2: 0, PC: pc(1)},
		{Opcode: prom.Bnz, Arg0: 2, Arg1: targetLo, Arg2: targetHi, PC: pc(2)},
		{Opcode: prom.Ldi, Arg0: 5, Arg1: 7, Arg2: 0, PC: pc(3)},
		{Opcode: prom.Ret, PC: pc(4)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Minimal(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.Bnz) != 0 || len(tr.Bz) != 1 {
		t.Errorf("bnz=%d bz=%d, want bnz=0 bz=1", len(tr.Bnz), len(tr.Bz))
	}
	if got, ok := mem.ReadOptU32(5); !ok || got != 7 {
		t.Errorf("slot 5 = %v, ok=%v; fallthrough should have run it", got, ok)
	}
}

// TestCallThenReturnLinksFrame exercises CALLI/RET frame allocation and
// linkage: the callee writes 5 into slot 2 of its own new frame, then
// returns control to the caller, whose own RET halts the program.
func TestCallThenReturnLinksFrame(t *testing.T) {
	calleeEntry := pc(10)
	targetLo, targetHi := splitImm(calleeEntry)

	callerRom := []prom.Instruction{
		{Opcode: prom.Calli, Arg0: targetLo, Arg1: targetHi, Arg2: 4, PC: pc(1)}, // new_fp stored at caller slot 4
		{Opcode: prom.Ret, PC: pc(2)},
	}
	calleeRom := []prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: 5, Arg2: 0, PC: calleeEntry}, // arbitrary callee work: FP[2] := 5
		{Opcode: prom.Ret, PC: field.NextPC(calleeEntry)},
	}
	rom, err := prom.New(append(callerRom, calleeRom...))
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)
	frameSizes := map[field.B32]uint32{calleeEntry: 4}

	i := New(rom, isa.Minimal(), mem, frameSizes, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.Call) != 1 {
		t.Fatalf("len(Call) = %d, want 1", len(tr.Call))
	}
	newFP := tr.Call[0].NewFP
	if got, ok := mem.ReadOptU32(newFP ^ 2); !ok || got != 5 {
		t.Errorf("callee FP[2] = %v, ok=%v; want 5", got, ok)
	}
	if tr.Boundary.FinalPC != 0 || tr.Boundary.FinalFP != 0 {
		t.Errorf("boundary = %+v, want caller's RET to reach final pc=0 fp=0", tr.Boundary)
	}
}

// TestDivideByZeroTraps is spec.md §8 scenario 6: a divide-by-zero check
// traps instead of computing a result. There is no integer-divide opcode
// in this ISA, so the zero-divisor check itself is what a DIV's guard
// clause would look like: SLTIU detects a zero divisor (imm=1, unsigned
// "< 1" is exactly "== 0"), and BNZ routes into a TRAP when it fires.
func TestDivideByZeroTraps(t *testing.T) {
	trapTarget := pc(5)
	trapLo, trapHi := splitImm(trapTarget)

	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: 0, Arg2: 0, PC: pc(1)},             // divisor = 0
		{Opcode: prom.Sltiu, Arg0: 3, Arg1: 2, Arg2: 1, PC: pc(2)},           // @3 = (divisor < 1)
		{Opcode: prom.Bnz, Arg0: 3, Arg1: trapLo, Arg2: trapHi, PC: pc(3)},   // zero divisor -> trap
		{Opcode: prom.Ret, PC: pc(4)},                                       // unreachable: divisor is 0
		{Opcode: prom.Ldi, Arg0: 4, Arg1: 7, Arg2: 0, PC: trapTarget},        // exception code 7
		{Opcode: prom.Trap, Arg0: 4, PC: pc(6)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(nil, nil)

	i := New(rom, isa.Generic(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.Bnz) != 1 || tr.Bnz[0].Target != trapTarget {
		t.Fatalf("bnz=%+v, want exactly one branch to %v", tr.Bnz, trapTarget)
	}
	if len(tr.Trap) != 1 {
		t.Fatalf("len(Trap) = %d, want 1", len(tr.Trap))
	}
	excFP := tr.Trap[0].ExceptionFP
	if tr.Trap[0].ExceptionCode != 7 {
		t.Errorf("ExceptionCode = %d, want 7", tr.Trap[0].ExceptionCode)
	}
	wantBoundary := trace.BoundaryValues{
		InitialPC: pc(1), InitialFP: 0, InitialTS: tr.Boundary.InitialTS,
		FinalPC: 0, FinalFP: excFP, FinalTS: tr.Boundary.FinalTS,
	}
	if diff := deep.Equal(wantBoundary, tr.Boundary); diff != nil {
		t.Errorf("boundary mismatch: %v", diff)
	}
	if got, ok := mem.ReadOptU32(excFP + 2); !ok || got != 7 {
		t.Errorf("exception frame slot 2 = %v, ok=%v; want code 7", got, ok)
	}
}

// TestFibonacciForwardReferences is spec.md §8 scenario 5. It computes
// fib(4) with each successor written before its addend, so three of the
// four MVVW copies below are genuine forward references: the source slot
// isn't set until a later ADD resolves it (§4.4), exercising the same
// pending-write machinery original_source/assembly/tests/fibonacci.rs
// relies on to let a callee's result flow back into a caller's frame.
func TestFibonacciForwardReferences(t *testing.T) {
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: 0, Arg2: 0, PC: pc(1)},  // a0 := 0
		{Opcode: prom.Ldi, Arg0: 3, Arg1: 1, Arg2: 0, PC: pc(2)},  // b0 := 1
		{Opcode: prom.Mvvw, Arg0: 4, Arg1: 3, PC: pc(3)},          // a1 := b0 (ready)
		{Opcode: prom.Mvvw, Arg0: 6, Arg1: 5, PC: pc(4)},          // a2 := b1 (pending: @5 unset)
		{Opcode: prom.Mvvw, Arg0: 8, Arg1: 7, PC: pc(5)},          // a3 := b2 (pending: @7 unset)
		{Opcode: prom.Mvvw, Arg0: 10, Arg1: 9, PC: pc(6)},         // a4 := b3 (pending: @9 unset)
		{Opcode: prom.Add, Arg0: 5, Arg1: 2, Arg2: 3, PC: pc(7)},  // b1 := a0+b0 = 1, resolves pc(4)
		{Opcode: prom.Add, Arg0: 7, Arg1: 4, Arg2: 5, PC: pc(8)},  // b2 := a1+b1 = 2, resolves pc(5)
		{Opcode: prom.Add, Arg0: 9, Arg1: 6, Arg2: 7, PC: pc(9)},  // b3 := a2+b2 = 3, resolves pc(6)
		{Opcode: prom.Add, Arg0: 11, Arg1: 8, Arg2: 9, PC: pc(10)}, // b4 := a3+b3 = 5 (unused)
		{Opcode: prom.Ret, PC: pc(11)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Generic(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, ok := mem.ReadOptU32(10); !ok || got != 3 {
		t.Errorf("FP[10] (fib(4)) = %v, ok=%v; want 3", got, ok)
	}
	if len(tr.Move) != 4 {
		t.Fatalf("len(Move) = %d, want 4 (one immediate, three forward-resolved)", len(tr.Move))
	}
	if len(tr.ArithReg) != 4 {
		t.Fatalf("len(ArithReg) = %d, want 4", len(tr.ArithReg))
	}
	if tr.Boundary.FinalPC != 0 || tr.Boundary.FinalFP != 0 {
		t.Errorf("boundary = %+v, want final pc=0 fp=0", tr.Boundary)
	}
}

// TestTrapHalts exercises the plain TRAP path directly (no preceding
// branch), independent of scenario 6's divide-by-zero guard above.
func TestTrapHalts(t *testing.T) {
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ldi, Arg0: 2, Arg1: 9, Arg2: 0, PC: pc(1)}, // exception code 9
		{Opcode: prom.Trap, Arg0: 2, PC: pc(2)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(nil, nil)

	i := New(rom, isa.Generic(), mem, nil, pc(1), 0, nil)
	tr, err := i.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.Trap) != 1 {
		t.Fatalf("len(Trap) = %d, want 1", len(tr.Trap))
	}
	excFP := tr.Trap[0].ExceptionFP
	if tr.Boundary.FinalFP != excFP || tr.Boundary.FinalPC != 0 {
		t.Errorf("boundary = %+v, want final_fp=%v final_pc=0", tr.Boundary, excFP)
	}
	if got, ok := mem.ReadOptU32(excFP + 2); !ok || got != 9 {
		t.Errorf("exception frame slot 2 = %v, ok=%v; want code 9", got, ok)
	}
}

// TestBadPcOnUnmappedTarget confirms an instruction fetch at a field PC
// absent from the ROM's bijection fails closed with BadPcError rather
// than panicking or silently halting.
func TestBadPcOnUnmappedTarget(t *testing.T) {
	rom, err := prom.New([]prom.Instruction{
		{Opcode: prom.Ret, PC: pc(1)},
	})
	if err != nil {
		t.Fatalf("prom.New: %v", err)
	}
	mem := vrom.New(map[uint32]uint32{0: 0, 1: 0}, nil)

	i := New(rom, isa.Minimal(), mem, nil, pc(2), 0, nil)
	_, err = i.Run()
	if _, ok := err.(BadPcError); !ok {
		t.Fatalf("expected BadPcError, got %v", err)
	}
}
