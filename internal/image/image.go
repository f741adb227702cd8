// Package image loads the minimal JSON program-image fixture format
// the CLI and tests use in place of the (out-of-scope) assembler's real
// wire format: a flat instruction list plus the frame-size table and
// initial VROM contents a session needs to run.
package image

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/prom"
	"github.com/petravm/petravm/vrom"
)

// instruction is the wire shape of one Program ROM entry.
type instruction struct {
	Opcode     string `json:"opcode"`
	Arg0       uint16 `json:"arg0"`
	Arg1       uint16 `json:"arg1"`
	Arg2       uint16 `json:"arg2"`
	PC         uint32 `json:"pc"`
	IsTailCall bool   `json:"is_tail_call"`
}

// doc is the wire shape of a whole program image.
type doc struct {
	Instructions []instruction     `json:"instructions"`
	FrameSizes   map[string]uint32 `json:"frame_sizes"`
	Vrom         map[string]uint32 `json:"vrom"`
}

// UnknownOpcodeNameError is returned when an image names an opcode
// prom.OpcodeByName doesn't recognize.
type UnknownOpcodeNameError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownOpcodeNameError) Error() string {
	return fmt.Sprintf("image: unknown opcode name %q", e.Name)
}

// Image is a loaded program image, ready to hand to interp.New.
type Image struct {
	ROM        *prom.ROM
	FrameSizes map[field.B32]uint32
	Vrom       *vrom.VROM
	// InitialPC is the field PC of the image's first instruction, the
	// entry point a session starts executing from.
	InitialPC field.B32
}

// Load parses a program image in the JSON format described in
// SPEC_FULL.md §6 from r.
func Load(r io.Reader) (*Image, error) {
	var d doc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}

	instructions := make([]prom.Instruction, 0, len(d.Instructions))
	for _, raw := range d.Instructions {
		op, ok := prom.OpcodeByName(raw.Opcode)
		if !ok {
			return nil, UnknownOpcodeNameError{Name: raw.Opcode}
		}
		instructions = append(instructions, prom.Instruction{
			Opcode:     op,
			Arg0:       raw.Arg0,
			Arg1:       raw.Arg1,
			Arg2:       raw.Arg2,
			PC:         field.B32(raw.PC),
			IsTailCall: raw.IsTailCall,
		})
	}
	if len(instructions) == 0 {
		return nil, fmt.Errorf("image: no instructions")
	}
	rom, err := prom.New(instructions)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}

	frameSizes, err := decodeFieldKeyedMap(d.FrameSizes)
	if err != nil {
		return nil, fmt.Errorf("image: frame_sizes: %w", err)
	}

	vromInit, err := decodeUint32KeyedMap(d.Vrom)
	if err != nil {
		return nil, fmt.Errorf("image: vrom: %w", err)
	}

	return &Image{
		ROM:        rom,
		FrameSizes: frameSizes,
		Vrom:       vrom.New(vromInit, nil),
		InitialPC:  instructions[0].PC,
	}, nil
}

func decodeFieldKeyedMap(raw map[string]uint32) (map[field.B32]uint32, error) {
	out := make(map[field.B32]uint32, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[field.B32(n)] = v
	}
	return out, nil
}

func decodeUint32KeyedMap(raw map[string]uint32) (map[uint32]uint32, error) {
	out := make(map[uint32]uint32, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[uint32(n)] = v
	}
	return out, nil
}
