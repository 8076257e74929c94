package pairs

import "kernelgo/pkg/value"

// MarkEpoch brackets a use of the mark-bit-piggyback technique: every
// pair visited during the epoch gets its mark flag set and its scratch
// slot written, and Close restores both to their rest state on every
// visited pair — including when the caller is unwinding on an error,
// since Close is meant to run from a defer.
//
// Grounded on original_source/src/kgpair_mut.c's copy_es_immutable_h,
// which sets kset_mark/kset_extra on every pair it walks and calls
// unmark_tree before returning or throwing.
type MarkEpoch struct {
	visited []*value.Value
}

// NewMarkEpoch starts a fresh epoch.
func NewMarkEpoch() *MarkEpoch { return &MarkEpoch{} }

// Visit marks p and stashes aux in its scratch slot, recording p so
// Close can restore it later. Visit is a no-op (returns false) if p is
// already marked within this epoch, which is how cycle-aware
// algorithms detect a back-edge without a separate seen-set.
func (m *MarkEpoch) Visit(p *value.Value, aux *value.Value) bool {
	if !value.IsPair(p) || p.MarkedForTraversal() {
		return false
	}
	p.SetMarked(true)
	p.SetScratch(aux)
	m.visited = append(m.visited, p)
	return true
}

// Aux returns the scratch slot stashed by Visit, or nil if p was never
// visited in this epoch.
func (m *MarkEpoch) Aux(p *value.Value) *value.Value {
	if !value.IsPair(p) {
		return nil
	}
	return p.Scratch()
}

// Close unmarks every pair this epoch visited and clears its scratch
// slot, restoring the object graph to the state any other reader
// expects. Safe to call multiple times and safe to call via defer
// immediately after NewMarkEpoch.
func (m *MarkEpoch) Close() {
	for _, p := range m.visited {
		p.SetMarked(false)
		p.SetScratch(nil)
	}
	m.visited = m.visited[:0]
}
