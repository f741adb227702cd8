package interp

import (
	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/isa"
	"github.com/petravm/petravm/trace"
	"github.com/petravm/petravm/vrom"
)

// executionContext is the concrete isa.Context the interpreter hands to
// every opcode handler. It owns nothing opcode handlers don't need:
// register snapshot, VROM access, frame allocation, and the trace to
// append to.
type executionContext struct {
	pc field.B32
	fp uint32
	ts uint32

	mem        *vrom.VROM
	frameSizes map[field.B32]uint32
	tr         *trace.Trace
}

var _ isa.Context = (*executionContext)(nil)

func (c *executionContext) PC() field.B32 { return c.pc }
func (c *executionContext) FP() uint32    { return c.fp }
func (c *executionContext) TS() uint32    { return c.ts }

func (c *executionContext) ReadU32(addr uint32) (uint32, error) { return c.mem.ReadU32(addr) }
func (c *executionContext) WriteU32(addr, val uint32, allowForward bool) error {
	return c.mem.WriteU32(addr, val, allowForward)
}
func (c *executionContext) ReadOptU32(addr uint32) (uint32, bool) { return c.mem.ReadOptU32(addr) }
func (c *executionContext) ReadU64(addr uint32) (uint64, error)  { return c.mem.ReadU64(addr) }
func (c *executionContext) WriteU64(addr uint32, val uint64, allowForward bool) error {
	return c.mem.WriteU64(addr, val, allowForward)
}
func (c *executionContext) ReadU128(addr uint32) (hi, lo uint64, err error) {
	return c.mem.ReadU128(addr)
}
func (c *executionContext) WriteU128(addr uint32, hi, lo uint64, allowForward bool) error {
	return c.mem.WriteU128(addr, hi, lo, allowForward)
}

func (c *executionContext) AllocateFrame(size uint32) (uint32, error) {
	return c.mem.AllocateFrame(size)
}

func (c *executionContext) InsertPending(dst uint32, resolve func(uint32)) {
	c.mem.InsertPending(dst, vrom.PendingUpdate{Resolve: resolve})
}

func (c *executionContext) FrameSize(target field.B32) (uint32, error) {
	size, ok := c.frameSizes[target]
	if !ok {
		return 0, isa.MissingFrameSizeError{Target: target}
	}
	return size, nil
}

func (c *executionContext) JumpTo(pc field.B32) { c.pc = pc }
func (c *executionContext) IncrPC()             { c.pc = field.NextPC(c.pc) }
func (c *executionContext) SetFP(fp uint32)     { c.fp = fp }

func (c *executionContext) Trace() *trace.Trace { return c.tr }
