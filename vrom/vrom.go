// Package vrom implements the Value ROM: PetraVM's write-once data
// memory. Every 32-bit slot may be written at most once (repeat writes
// of the same value are a no-op; conflicting writes are an error), reads
// of a slot that hasn't been written yet are an error, and wider values
// are accessed as consecutive little-endian slots. The frame allocator
// and the forward-reference (pending write) resolver both live here
// because the spec defines them as part of VROM's job, not the
// interpreter's.
package vrom

import (
	"log/slog"
	"sort"
)

// state is the write-once lifecycle of a single VROM slot.
type state uint8

const (
	stateUnset state = iota
	statePending
	stateSet
)

// VROM is PetraVM's write-once value memory.
type VROM struct {
	values  map[uint32]uint32
	states  map[uint32]state
	reads   map[uint32]int // number of successful typed reads per set address, for vrom_channel multiplicity.
	pending map[uint32]PendingUpdate

	nextFrameIndex uint32

	log *slog.Logger
}

// New creates an empty VROM. initial pre-populates slots as already set
// (used by tests to seed boundary values such as the initial frame's
// saved return PC/FP).
func New(initial map[uint32]uint32, logger *slog.Logger) *VROM {
	if logger == nil {
		logger = slog.Default()
	}
	v := &VROM{
		values:         make(map[uint32]uint32, len(initial)),
		states:         make(map[uint32]state, len(initial)),
		reads:          make(map[uint32]int),
		pending:        make(map[uint32]PendingUpdate),
		nextFrameIndex: 1, // frame index 0 is reserved for the caller-supplied boundary frame.
		log:            logger,
	}
	for addr, val := range initial {
		v.values[addr] = val
		v.states[addr] = stateSet
	}
	return v
}

// WriteU32 writes a 32-bit value to addr under write-once semantics. If
// allowForward is true and addr has a pending forward-reference
// obligation, that obligation fires now that the value is known.
func (v *VROM) WriteU32(addr, val uint32, allowForward bool) error {
	switch v.states[addr] {
	case stateSet:
		if v.values[addr] != val {
			return RewriteError{Addr: addr, OldValue: v.values[addr], NewValue: val}
		}
		v.log.Debug("vrom write no-op", "addr", addr, "value", val)
		return nil
	default: // stateUnset or statePending
		v.values[addr] = val
		v.states[addr] = stateSet
		v.log.Debug("vrom write", "addr", addr, "value", val)
		if allowForward {
			v.resolvePending(addr, val)
		}
		return nil
	}
}

// ReadU32 reads a 32-bit value from addr. Reading an unset or pending
// slot is an error; every successful read increments addr's read count,
// which becomes the vrom_channel push multiplicity for that slot's
// eventual write-log entry.
func (v *VROM) ReadU32(addr uint32) (uint32, error) {
	if v.states[addr] != stateSet {
		return 0, MissingValueError{Addr: addr}
	}
	v.reads[addr]++
	return v.values[addr], nil
}

// ReadOptU32 reads a 32-bit value from addr without erroring if it's
// unset or pending; ok is false in that case. It does not count as a
// read, so it generates no vrom_channel obligation; the MOVE handlers use
// it to decide whether to defer on a not-yet-written source.
func (v *VROM) ReadOptU32(addr uint32) (val uint32, ok bool) {
	if v.states[addr] != stateSet {
		return 0, false
	}
	return v.values[addr], true
}

// WriteU64 writes a 64-bit value across two consecutive slots in
// little-endian word order. addr must be 2-aligned.
func (v *VROM) WriteU64(addr uint32, val uint64, allowForward bool) error {
	if addr%2 != 0 {
		return MisalignedError{Width: 64, Addr: addr}
	}
	if err := v.WriteU32(addr, uint32(val), allowForward); err != nil {
		return err
	}
	return v.WriteU32(addr+1, uint32(val>>32), allowForward)
}

// ReadU64 reads a 64-bit value across two consecutive slots. addr must
// be 2-aligned.
func (v *VROM) ReadU64(addr uint32) (uint64, error) {
	if addr%2 != 0 {
		return 0, MisalignedError{Width: 64, Addr: addr}
	}
	lo, err := v.ReadU32(addr)
	if err != nil {
		return 0, err
	}
	hi, err := v.ReadU32(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint64(lo) | uint64(hi)<<32, nil
}

// ReadOptU64 is the non-erroring 64-bit counterpart of ReadOptU32.
func (v *VROM) ReadOptU64(addr uint32) (val uint64, ok bool) {
	if addr%2 != 0 {
		return 0, false
	}
	lo, ok := v.ReadOptU32(addr)
	if !ok {
		return 0, false
	}
	hi, ok := v.ReadOptU32(addr + 1)
	if !ok {
		return 0, false
	}
	return uint64(lo) | uint64(hi)<<32, true
}

// WriteU128 writes a 128-bit value across four consecutive slots in
// little-endian word order. addr must be 4-aligned.
func (v *VROM) WriteU128(addr uint32, hi, lo uint64, allowForward bool) error {
	if addr%4 != 0 {
		return MisalignedError{Width: 128, Addr: addr}
	}
	if err := v.WriteU64(addr, lo, allowForward); err != nil {
		return err
	}
	return v.WriteU64(addr+2, hi, allowForward)
}

// ReadU128 reads a 128-bit value across four consecutive slots. addr
// must be 4-aligned. Returns (hi, lo).
func (v *VROM) ReadU128(addr uint32) (hi, lo uint64, err error) {
	if addr%4 != 0 {
		return 0, 0, MisalignedError{Width: 128, Addr: addr}
	}
	lo, err = v.ReadU64(addr)
	if err != nil {
		return 0, 0, err
	}
	hi, err = v.ReadU64(addr + 2)
	if err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

// WriteLogEntry is one row of the VROM write log that the Trace carries:
// an address, the value first written there, and the number of reads
// performed against it (the vrom_channel push multiplicity, per
// spec.md §4.7).
type WriteLogEntry struct {
	Addr  uint32
	Value uint32
	Reads int
}

// WriteLog returns the full set of committed (address, value, read
// count) rows, in ascending address order, suitable for freezing into a
// Trace at program termination.
func (v *VROM) WriteLog() []WriteLogEntry {
	entries := make([]WriteLogEntry, 0, len(v.values))
	for addr, val := range v.values {
		if v.states[addr] != stateSet {
			continue
		}
		entries = append(entries, WriteLogEntry{Addr: addr, Value: val, Reads: v.reads[addr]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Addr < entries[j].Addr })
	return entries
}
