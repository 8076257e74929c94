// Package gcroot implements a GC root-protection contract: since
// pkg/value never runs a real collector, this package exists to keep
// the rooting discipline itself honest and exercised rather than left
// as a comment. pairs.CopyEsImmutable, the one function elsewhere in
// this module that holds a freshly allocated value only in a local Go
// variable across further allocation, pushes that value onto a Guard
// first — the shape a real moving collector would need to find it,
// even though nothing here actually moves memory.
//
// Values are plain Go pointers kept alive by the garbage collector's
// own root scan of the goroutine stack; this package generalizes that
// into an explicit "shadow stack" / "dummy pair" contract, cross
// checked against original_source/src/kgpair_mut.c's krooted_tvs_push
// and krooted_vars_push macros.
package gcroot

import "kernelgo/pkg/value"

// Guard is a shadow value stack: a LIFO of roots that must stay alive
// across an allocation. Push before allocating, Pop (via defer) once
// the pushed value has been re-linked into a result the caller already
// protects some other way.
type Guard struct {
	stack []*value.Value
}

// New returns an empty Guard.
func New() *Guard { return &Guard{} }

// Push roots v and returns its index, to be handed to PopTo if several
// values are pushed before any of them can be released.
func (g *Guard) Push(v *value.Value) int {
	g.stack = append(g.stack, v)
	return len(g.stack) - 1
}

// Pop releases the most recently pushed root.
func (g *Guard) Pop() {
	if len(g.stack) == 0 {
		return
	}
	g.stack = g.stack[:len(g.stack)-1]
}

// PopTo releases every root pushed at or after index i, restoring the
// stack to the depth it had right before that Push returned i. Used
// when a function pushes several roots in sequence and wants to
// release them all at once on every exit path, including error paths.
func (g *Guard) PopTo(i int) {
	if i < 0 || i > len(g.stack) {
		return
	}
	g.stack = g.stack[:i]
}

// Len reports how many roots are currently held, mostly useful from
// tests asserting a function left the guard balanced.
func (g *Guard) Len() int { return len(g.stack) }

// Dummy returns a throwaway mutable pair used as an anchor: code that
// builds a list incrementally conses onto Dummy.Cdr first (so the
// half-built tail is reachable through a value already on the Go
// stack) and only then reads Dummy.Cdr back out as the real result,
// mirroring the "dummy pair" pattern in klisp's copy_es-style
// algorithms (see pkg/pairs.Append).
func Dummy() *value.Value {
	return value.NewPair(value.Inert, value.Nil)
}
