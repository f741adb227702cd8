// Package interp implements PetraVM's decode-dispatch loop: the
// straight-line loop that fetches an instruction at the current PC,
// hands it to the active ISA's handler through an execution context,
// and advances state until the program halts or traps. Opcode
// semantics live in package isa; this package only owns the loop,
// register state, and the concrete Context the handlers run against.
package interp

import (
	"log/slog"

	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/isa"
	"github.com/petravm/petravm/prom"
	"github.com/petravm/petravm/trace"
	"github.com/petravm/petravm/vrom"
)

// Interp runs one program to completion. It is single-use: create one
// per session (spec.md §5 — the core is strictly single-threaded, and
// a session's state is never shared).
type Interp struct {
	rom        *prom.ROM
	table      *isa.ISA
	frameSizes map[field.B32]uint32
	ctx        *executionContext
	log        *slog.Logger
}

// New builds an interpreter ready to run rom under table, with mem as
// its VROM (already seeded with any boundary values the caller needs)
// and frameSizes as the call-target -> frame-size table. initialPC and
// initialFP seed both the register state and the trace's boundary
// values.
func New(rom *prom.ROM, table *isa.ISA, mem *vrom.VROM, frameSizes map[field.B32]uint32, initialPC field.B32, initialFP uint32, logger *slog.Logger) *Interp {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interp{
		rom:        rom,
		table:      table,
		frameSizes: frameSizes,
		ctx: &executionContext{
			pc: initialPC, fp: initialFP, ts: 0,
			mem: mem, frameSizes: frameSizes,
			tr: trace.New(initialPC, initialFP),
		},
		log: logger,
	}
}

// Run executes the decode-dispatch loop (spec.md §4.5) until the
// program halts at the terminator PC or an opcode handler returns an
// error. On success it returns the frozen, read-only trace.
func (i *Interp) Run() (*trace.Trace, error) {
	for {
		if i.ctx.pc == prom.TerminalPC {
			return i.halt()
		}

		idx, ok := i.rom.IndexForFieldPC(i.ctx.pc)
		if !ok {
			return nil, BadPcError{PC: i.ctx.pc}
		}
		inst, ok := i.rom.At(idx)
		if !ok || inst.Opcode == prom.Invalid {
			return nil, BadPcError{PC: i.ctx.pc}
		}

		handler, ok := i.table.Handler(inst.Opcode)
		if !ok {
			return nil, UnknownOpcodeError{Opcode: inst.Opcode, PC: i.ctx.pc}
		}

		i.log.Debug("dispatch", "pc", i.ctx.pc, "fp", i.ctx.fp, "ts", i.ctx.ts, "opcode", inst.Opcode)
		if err := handler(i.ctx, inst); err != nil {
			return nil, err
		}

		// A TRAP doesn't advance the clock: its pushed state tuple carries
		// the pre-trap timestamp unchanged (event.TrapEvent.Fire), so the
		// boundary values this halt records must match it exactly.
		if inst.Opcode != prom.Trap {
			i.ctx.ts++
		}
	}
}

// halt finalizes the trace once PC has reached the terminator, checking
// the one global postcondition the dispatch loop itself (rather than any
// single handler) is responsible for: no forward reference left dangling.
func (i *Interp) halt() (*trace.Trace, error) {
	if n := i.ctx.mem.PendingCount(); n > 0 {
		return nil, PendingNotResolvedError{Addrs: i.ctx.mem.PendingAddrs()}
	}
	i.ctx.tr.Freeze(i.ctx.pc, i.ctx.fp, i.ctx.ts, i.ctx.mem.WriteLog())
	return i.ctx.tr, nil
}
