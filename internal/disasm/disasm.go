// Package disasm renders a decoded Program ROM back into slot/immediate
// syntax, one line per instruction: slots as `@n`, 16-bit immediates as
// `#v`, and values assembled from two 16-bit halves (targets, LDI
// immediates) as hex addresses. The `@n[k]` and `#vG` forms are not
// produced. It never decodes raw bytes — the ROM is
// already structured — so its only job is picking, per opcode family,
// which of an instruction's three argument fields are slots and which
// are immediates, and formatting them accordingly.
package disasm

import (
	"fmt"
	"strings"

	"github.com/petravm/petravm/prom"
)

// slot renders a 16-bit slot offset as spec.md's `@n` form.
func slot(n uint16) string {
	return fmt.Sprintf("@%d", n)
}

// imm renders a signed 16-bit immediate as spec.md's `#v` form.
func imm(v uint16) string {
	return fmt.Sprintf("#%d", int16(v))
}

// addr renders a field-valued target address assembled from a 16-bit
// low/high pair, as CALLI/TAILI/JUMPI/BNZ all encode their targets.
func addr(lo, hi uint16) string {
	return fmt.Sprintf("0x%08x", uint32(lo)|uint32(hi)<<16)
}

var arithImmOps = map[prom.Opcode]bool{
	prom.Addi: true, prom.Andi: true, prom.Ori: true, prom.Xori: true,
	prom.Muli: true, prom.Sltiu: true, prom.Slti: true,
}

var arithRegOps = map[prom.Opcode]bool{
	prom.Add: true, prom.And: true, prom.Or: true, prom.Xor: true, prom.Sub: true,
	prom.Mul: true, prom.Mulu: true, prom.Mulsu: true, prom.Sltu: true, prom.Slt: true,
}

var shiftImmOps = map[prom.Opcode]bool{prom.Slli: true, prom.Srli: true, prom.Srai: true}
var shiftRegOps = map[prom.Opcode]bool{prom.Sll: true, prom.Srl: true, prom.Sra: true}

// operands returns the rendered argument list for inst, per its opcode
// family's known argument layout (isa package's handlers are the ground
// truth for which field means what).
func operands(inst prom.Instruction) []string {
	switch {
	case inst.Opcode == prom.Invalid || inst.Opcode == prom.Ret:
		return nil
	case arithImmOps[inst.Opcode]:
		return []string{slot(inst.Arg0), slot(inst.Arg1), imm(inst.Arg2)}
	case arithRegOps[inst.Opcode]:
		return []string{slot(inst.Arg0), slot(inst.Arg1), slot(inst.Arg2)}
	case shiftImmOps[inst.Opcode]:
		return []string{slot(inst.Arg0), slot(inst.Arg1), imm(inst.Arg2)}
	case shiftRegOps[inst.Opcode]:
		return []string{slot(inst.Arg0), slot(inst.Arg1), slot(inst.Arg2)}
	case inst.Opcode == prom.B32Mul:
		return []string{slot(inst.Arg0), slot(inst.Arg1), slot(inst.Arg2)}
	case inst.Opcode == prom.B32Muli:
		return []string{slot(inst.Arg0), slot(inst.Arg1), imm(inst.Arg2)}
	case inst.Opcode == prom.B128Add || inst.Opcode == prom.B128Mul:
		return []string{slot(inst.Arg0), slot(inst.Arg1), slot(inst.Arg2)}
	case inst.Opcode == prom.Mvvw || inst.Opcode == prom.Mvvl:
		return []string{slot(inst.Arg0), slot(inst.Arg1)}
	case inst.Opcode == prom.Mvih:
		return []string{slot(inst.Arg0), imm(inst.Arg1)}
	case inst.Opcode == prom.Ldi:
		return []string{slot(inst.Arg0), addr(inst.Arg1, inst.Arg2)}
	case inst.Opcode == prom.Bnz:
		return []string{slot(inst.Arg0), addr(inst.Arg1, inst.Arg2)}
	case inst.Opcode == prom.Jumpi:
		return []string{addr(inst.Arg0, inst.Arg1)}
	case inst.Opcode == prom.Jumpv:
		return []string{slot(inst.Arg0)}
	case inst.Opcode == prom.Calli:
		return []string{addr(inst.Arg0, inst.Arg1), slot(inst.Arg2)}
	case inst.Opcode == prom.Callv:
		return []string{slot(inst.Arg0), slot(inst.Arg1)}
	case inst.Opcode == prom.Taili:
		return []string{addr(inst.Arg0, inst.Arg1)}
	case inst.Opcode == prom.Tailv:
		return []string{slot(inst.Arg0)}
	case inst.Opcode == prom.Trap:
		return []string{slot(inst.Arg0)}
	default:
		return []string{fmt.Sprintf("%#x", inst.Arg0), fmt.Sprintf("%#x", inst.Arg1), fmt.Sprintf("%#x", inst.Arg2)}
	}
}

// Instruction renders one instruction as "pc: MNEMONIC operands", e.g.
// "0x00000002: ADDI     @2, @1, #5" (the mnemonic is padded to 8 columns).
func Instruction(inst prom.Instruction) string {
	ops := operands(inst)
	mnemonic := inst.Opcode.String()
	if len(ops) == 0 {
		return fmt.Sprintf("0x%08x: %s", uint32(inst.PC), mnemonic)
	}
	return fmt.Sprintf("0x%08x: %-8s %s", uint32(inst.PC), mnemonic, strings.Join(ops, ", "))
}

// Program renders every instruction in rom, in index order, one per
// line.
func Program(rom *prom.ROM) string {
	var b strings.Builder
	for i := 1; i <= rom.Len(); i++ {
		inst, ok := rom.At(i)
		if !ok {
			continue
		}
		fmt.Fprintln(&b, Instruction(inst))
	}
	return b.String()
}
