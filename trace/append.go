package trace

import "github.com/petravm/petravm/event"

// Each Append method appends to the matching per-family stream. Keeping
// these as named methods (rather than a single generic Append) gives the
// interpreter call sites type safety without a switch on event kind.

func (t *Trace) AppendArithImm(e event.ArithImmEvent) {
	t.mustNotBeFrozen()
	t.ArithImm = append(t.ArithImm, e)
}

func (t *Trace) AppendArithReg(e event.ArithRegEvent) {
	t.mustNotBeFrozen()
	t.ArithReg = append(t.ArithReg, e)
}

func (t *Trace) AppendShiftImm(e event.ShiftImmEvent) {
	t.mustNotBeFrozen()
	t.ShiftImm = append(t.ShiftImm, e)
}

func (t *Trace) AppendShiftReg(e event.ShiftRegEvent) {
	t.mustNotBeFrozen()
	t.ShiftReg = append(t.ShiftReg, e)
}

func (t *Trace) AppendB32Mul(e event.B32MulEvent) {
	t.mustNotBeFrozen()
	t.B32Mul = append(t.B32Mul, e)
}

func (t *Trace) AppendB128Add(e event.B128AddEvent) {
	t.mustNotBeFrozen()
	t.B128Add = append(t.B128Add, e)
}

func (t *Trace) AppendB128Mul(e event.B128MulEvent) {
	t.mustNotBeFrozen()
	t.B128Mul = append(t.B128Mul, e)
}

func (t *Trace) AppendMove(e event.MoveEvent) {
	t.mustNotBeFrozen()
	t.Move = append(t.Move, e)
}

func (t *Trace) AppendBnz(e event.BnzEvent) {
	t.mustNotBeFrozen()
	t.Bnz = append(t.Bnz, e)
}

func (t *Trace) AppendBz(e event.BzEvent) {
	t.mustNotBeFrozen()
	t.Bz = append(t.Bz, e)
}

func (t *Trace) AppendJump(e event.JumpEvent) {
	t.mustNotBeFrozen()
	t.Jump = append(t.Jump, e)
}

func (t *Trace) AppendCall(e event.CallEvent) {
	t.mustNotBeFrozen()
	t.Call = append(t.Call, e)
}

func (t *Trace) AppendTail(e event.TailEvent) {
	t.mustNotBeFrozen()
	t.Tail = append(t.Tail, e)
}

func (t *Trace) AppendRet(e event.RetEvent) {
	t.mustNotBeFrozen()
	t.Ret = append(t.Ret, e)
}

func (t *Trace) AppendTrap(e event.TrapEvent) {
	t.mustNotBeFrozen()
	t.Trap = append(t.Trap, e)
}

// Events returns every event in the trace as the common event.Event
// interface, in no particular cross-family order (each family's own slice
// preserves emission order; this is for consumers — like the validator —
// that just need to iterate everything once).
func (t *Trace) Events() []event.Event {
	var all []event.Event
	for _, e := range t.ArithImm {
		all = append(all, e)
	}
	for _, e := range t.ArithReg {
		all = append(all, e)
	}
	for _, e := range t.ShiftImm {
		all = append(all, e)
	}
	for _, e := range t.ShiftReg {
		all = append(all, e)
	}
	for _, e := range t.B32Mul {
		all = append(all, e)
	}
	for _, e := range t.B128Add {
		all = append(all, e)
	}
	for _, e := range t.B128Mul {
		all = append(all, e)
	}
	for _, e := range t.Move {
		all = append(all, e)
	}
	for _, e := range t.Bnz {
		all = append(all, e)
	}
	for _, e := range t.Bz {
		all = append(all, e)
	}
	for _, e := range t.Jump {
		all = append(all, e)
	}
	for _, e := range t.Call {
		all = append(all, e)
	}
	for _, e := range t.Tail {
		all = append(all, e)
	}
	for _, e := range t.Ret {
		all = append(all, e)
	}
	for _, e := range t.Trap {
		all = append(all, e)
	}
	return all
}
