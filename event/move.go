package event

import "github.com/petravm/petravm/channel"

// MoveKind distinguishes the four Move-family instructions, which share a
// channel-contribution shape but differ in which operands are read/written
// and whether a pending forward-reference may be involved.
type MoveKind uint8

const (
	// MoveWord is MVVW: FP[Dst] := FP[Src] (one 32-bit word).
	MoveWord MoveKind = iota
	// MoveLong is MVVL: FP[Dst] := FP[Src] (64-bit, two consecutive slots).
	MoveLong
	// MoveImmHigh is MVIH: FP[Dst] := Imm << 16, the immediate in the high
	// 16 bits of the destination slot and zero in the low 16 bits.
	MoveImmHigh
	// MoveLoadImm is LDI: FP[Dst] := Imm (no source read).
	MoveLoadImm
)

// MoveEvent covers MVVW, MVVL, MVIH, and LDI. SrcVal is read for MVVW/MVVL
// only; LDI and MVIH carry no source read, since their value comes from an
// immediate rather than another slot. MVVW/MVVL's source read may be a
// forward reference resolved via isa's pending-write wiring (§4.4), in
// which case this event isn't appended until the source materializes.
type MoveEvent struct {
	Base
	Kind   MoveKind
	Dst    uint16
	DstVal uint32
	// DstValHigh is MVVL's second 32-bit word; unused otherwise.
	DstValHigh uint32
	Src        uint16
	SrcVal     uint32
	SrcValHigh uint32
	Imm        uint32
}

// Fire replays this event's channel contributions.
func (e MoveEvent) Fire(set *channel.Set) {
	e.fireNonJump(set)
	switch e.Kind {
	case MoveWord:
		e.pullRead(set, e.FP^uint32(e.Src), e.SrcVal)
	case MoveLong:
		e.pullRead(set, e.FP^uint32(e.Src), e.SrcVal)
		e.pullRead(set, (e.FP^uint32(e.Src))+1, e.SrcValHigh)
	case MoveImmHigh, MoveLoadImm:
		// No VROM read: the value comes from an immediate.
	}
}
