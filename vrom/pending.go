package vrom

// PendingUpdate records a forward-reference obligation: "when this slot
// becomes set, emit the MOVE event these facts describe." The resolver
// is supplied by the interpreter at InsertPending time; VROM itself
// knows nothing about event types, it only knows when to call back.
type PendingUpdate struct {
	// Resolve is invoked with the now-known value once the pending slot
	// is written. dst's own pending entry is already removed by the
	// time Resolve runs, so it may freely call back into VROM (e.g. to
	// write the MOVE's destination slot) as long as it doesn't target
	// dst itself.
	Resolve func(value uint32)
}

// InsertPending records a forward-reference obligation for dst. If dst
// is already set, the obligation fires immediately with the known
// value instead of waiting. If dst already has a pending obligation,
// the new one replaces it (each destination slot is the target of at
// most one forward-referencing MOVE).
func (v *VROM) InsertPending(dst uint32, update PendingUpdate) {
	if v.states[dst] == stateSet {
		update.Resolve(v.values[dst])
		return
	}
	if v.states[dst] == stateUnset {
		v.states[dst] = statePending
	}
	v.pending[dst] = update
	v.log.Debug("vrom pending write registered", "dst", dst)
}

// resolvePending fires and clears dst's pending obligation, if any. It's
// called from WriteU32 once a forward-referenced slot becomes set.
func (v *VROM) resolvePending(dst, val uint32) {
	update, ok := v.pending[dst]
	if !ok {
		return
	}
	delete(v.pending, dst)
	update.Resolve(val)
}

// PendingCount returns the number of unresolved forward-reference
// obligations. The interpreter checks this is zero at termination
// (spec.md §4.4's PendingNotResolved invariant).
func (v *VROM) PendingCount() int {
	return len(v.pending)
}

// PendingAddrs returns the addresses with unresolved obligations, for
// diagnostics when PendingNotResolved fires.
func (v *VROM) PendingAddrs() []uint32 {
	addrs := make([]uint32, 0, len(v.pending))
	for addr := range v.pending {
		addrs = append(addrs, addr)
	}
	return addrs
}
