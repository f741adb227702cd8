package event

import (
	"github.com/petravm/petravm/channel"
	"github.com/petravm/petravm/field"
)

// B32MulEvent covers B32_MUL (FP[Dst] := FP[Src1] * FP[Src2] in GF(2^32))
// and B32_MULI (FP[Dst] := FP[Src] * Imm), distinguished by whether Src2 is
// read from VROM or supplied as a field immediate.
type B32MulEvent struct {
	Base
	Dst     uint16
	DstVal  field.B32
	Src1    uint16
	Src1Val field.B32
	// Src2 and Src2Val are zero-valued for the immediate form; Imm is used
	// instead.
	Src2    uint16
	Src2Val field.B32
	Imm     field.B32
	IsImm   bool
}

// Fire replays this event's channel contributions.
func (e B32MulEvent) Fire(set *channel.Set) {
	e.fireNonJump(set)
	e.pullRead(set, e.FP^uint32(e.Src1), uint32(e.Src1Val))
	if !e.IsImm {
		e.pullRead(set, e.FP^uint32(e.Src2), uint32(e.Src2Val))
	}
}

// pullRead128 pulls the four vrom_channel entries backing a 128-bit operand
// read at addr, in the little-endian word order vrom.ReadU128 uses.
func (b Base) pullRead128(set *channel.Set, addr uint32, val field.B128) {
	words := val.Words()
	for i, w := range words {
		b.pullRead(set, addr+uint32(i), w)
	}
}

// B128AddEvent covers B128_ADD: FP[Dst] := FP[Src1] + FP[Src2] in GF(2^128)
// (bitwise XOR across both 64-bit halves).
type B128AddEvent struct {
	Base
	Dst     uint16
	DstVal  field.B128
	Src1    uint16
	Src1Val field.B128
	Src2    uint16
	Src2Val field.B128
}

// Fire replays this event's channel contributions.
func (e B128AddEvent) Fire(set *channel.Set) {
	e.fireNonJump(set)
	e.pullRead128(set, e.FP^uint32(e.Src1), e.Src1Val)
	e.pullRead128(set, e.FP^uint32(e.Src2), e.Src2Val)
}

// B128MulEvent covers B128_MUL: FP[Dst] := FP[Src1] * FP[Src2] in GF(2^128).
type B128MulEvent struct {
	Base
	Dst     uint16
	DstVal  field.B128
	Src1    uint16
	Src1Val field.B128
	Src2    uint16
	Src2Val field.B128
}

// Fire replays this event's channel contributions.
func (e B128MulEvent) Fire(set *channel.Set) {
	e.fireNonJump(set)
	e.pullRead128(set, e.FP^uint32(e.Src1), e.Src1Val)
	e.pullRead128(set, e.FP^uint32(e.Src2), e.Src2Val)
}
