// Package prom implements the Program ROM: the immutable, indexed table
// of decoded instructions that the interpreter fetches from. It owns the
// bijection between the field-valued PC used at runtime and the integer
// index used to actually slice into the instruction table.
package prom

import (
	"fmt"
	"strings"

	"github.com/petravm/petravm/field"
)

// Opcode identifies an instruction's opcode family. Numeric values match
// the assembler's own discriminants so that trace dumps stay comparable
// against externally generated fixtures.
type Opcode uint16

// Opcode constants. Invalid is zero so a zero-valued Instruction decodes
// as Invalid, matching the assembler's own default.
const (
	Invalid Opcode = 0x00

	Bnz  Opcode = 0x01
	Xori Opcode = 0x02
	Xor  Opcode = 0x03
	Andi Opcode = 0x04
	Srli Opcode = 0x05
	Slli Opcode = 0x06
	Addi Opcode = 0x07
	Add  Opcode = 0x08
	Muli Opcode = 0x09
	Callv Opcode = 0x0a
	Ret  Opcode = 0x0b
	Taili Opcode = 0x0c
	Mvvw Opcode = 0x0d
	Mvih Opcode = 0x0e
	Ldi  Opcode = 0x0f
	B32Mul Opcode = 0x10
	Mvvl Opcode = 0x11
	Tailv Opcode = 0x12
	And  Opcode = 0x13
	Or   Opcode = 0x14
	Ori  Opcode = 0x15
	B128Add Opcode = 0x16
	B128Mul Opcode = 0x17
	Calli Opcode = 0x18
	Sub  Opcode = 0x19
	Sltu Opcode = 0x1a
	Sltiu Opcode = 0x1b
	Sll  Opcode = 0x1c
	Srl  Opcode = 0x1d
	Sra  Opcode = 0x1e
	Mul  Opcode = 0x1f
	Jumpi Opcode = 0x20
	Jumpv Opcode = 0x21
	Srai Opcode = 0x22
	Mulu Opcode = 0x23
	Mulsu Opcode = 0x24
	Slt  Opcode = 0x25
	Slti Opcode = 0x26
	B32Muli Opcode = 0x27
	// Trap is not present in the retrieved opcode table snapshot; it is
	// assigned the next free discriminant after B32Muli.
	Trap Opcode = 0x28
)

// opcodeNames is used only for String() / disassembly and debug logging.
var opcodeNames = map[Opcode]string{
	Invalid: "INVALID",
	Bnz:     "BNZ",
	Xori:    "XORI",
	Xor:     "XOR",
	Andi:    "ANDI",
	Srli:    "SRLI",
	Slli:    "SLLI",
	Addi:    "ADDI",
	Add:     "ADD",
	Muli:    "MULI",
	Callv:   "CALLV",
	Ret:     "RET",
	Taili:   "TAILI",
	Mvvw:    "MVVW",
	Mvih:    "MVIH",
	Ldi:     "LDI",
	B32Mul:  "B32_MUL",
	Mvvl:    "MVVL",
	Tailv:   "TAILV",
	And:     "AND",
	Or:      "OR",
	Ori:     "ORI",
	B128Add: "B128_ADD",
	B128Mul: "B128_MUL",
	Calli:   "CALLI",
	Sub:     "SUB",
	Sltu:    "SLTU",
	Sltiu:   "SLTIU",
	Sll:     "SLL",
	Srl:     "SRL",
	Sra:     "SRA",
	Mul:     "MUL",
	Jumpi:   "JUMPI",
	Jumpv:   "JUMPV",
	Srai:    "SRAI",
	Mulu:    "MULU",
	Mulsu:   "MULSU",
	Slt:     "SLT",
	Slti:    "SLTI",
	B32Muli: "B32_MULI",
	Trap:    "TRAP",
}

// String implements fmt.Stringer for debug output and disassembly.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OPCODE(%#x)", uint16(o))
}

// opcodeByName is opcodeNames inverted, built once for OpcodeByName.
var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// OpcodeByName looks up an opcode by its mnemonic (e.g. "ADDI",
// "B32_MUL"), for deserializing a textual/JSON program image. The
// comparison is case-insensitive.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeByName[strings.ToUpper(name)]
	return op, ok
}

// NumArgs returns how many of an instruction's three 16-bit argument
// fields are semantically meaningful for its opcode. RET and Invalid
// take none; TRAP takes one; JUMPV/TAILV/CALLV take two (target-or-offset
// plus one more); every other opcode takes three.
func (o Opcode) NumArgs() int {
	switch o {
	case Invalid, Ret:
		return 0
	case Trap:
		return 1
	case Jumpv, Tailv, Callv:
		return 2
	default:
		return 3
	}
}

// Instruction is a single decoded Program ROM entry.
type Instruction struct {
	Opcode Opcode
	Arg0   uint16
	Arg1   uint16
	Arg2   uint16
	// PC is the field-valued program counter of this instruction.
	PC field.B32
	// IsTailCall marks a tail-call site (a tail call reuses the caller's
	// return info). It is carried through as data; the interpreter's
	// frame-size lookup does not consult it.
	IsTailCall bool
}

// ROM is the immutable, indexed instruction table. Index 0 is reserved as
// the terminator; real instructions start at index 1.
type ROM struct {
	instructions []Instruction      // instructions[0] is a placeholder; real entries start at 1.
	indexOf      map[field.B32]int  // field PC -> index, a bijection over PCs that occur.
}

// New builds a ROM from instructions in execution order. The first
// instruction is assigned index 1, the second index 2, and so on.
// Returns an error if any two instructions share a field PC (the
// pc_field -> index mapping would no longer be a bijection).
func New(instructions []Instruction) (*ROM, error) {
	r := &ROM{
		instructions: make([]Instruction, len(instructions)+1),
		indexOf:      make(map[field.B32]int, len(instructions)),
	}
	for i, instr := range instructions {
		idx := i + 1
		r.instructions[idx] = instr
		if prev, exists := r.indexOf[instr.PC]; exists {
			return nil, fmt.Errorf("prom: duplicate field PC %#x at indices %d and %d", instr.PC, prev, idx)
		}
		r.indexOf[instr.PC] = idx
	}
	return r, nil
}

// TerminalPC is the sentinel field PC (0) meaning "program has returned to
// the boundary".
const TerminalPC field.B32 = 0

// At returns the instruction at the given integer index. ok is false if
// index is out of range or refers to the reserved index 0.
func (r *ROM) At(index int) (Instruction, bool) {
	if index <= 0 || index >= len(r.instructions) {
		return Instruction{}, false
	}
	return r.instructions[index], true
}

// IndexForFieldPC converts a runtime field-valued PC into an integer
// index via the assembler-provided bijection.
func (r *ROM) IndexForFieldPC(pc field.B32) (int, bool) {
	idx, ok := r.indexOf[pc]
	return idx, ok
}

// Len returns the number of real instructions (excluding the reserved
// index 0 terminator slot).
func (r *ROM) Len() int {
	return len(r.instructions) - 1
}
