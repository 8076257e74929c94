// Package kcont implements the first-class continuation: a
// parent-linked record holding a resume function, realized here
// as a Go closure rather than a tagged union of control states (see
// DESIGN.md) plus the is-ancestor? probe used to decide whether one
// continuation's invocation would pass through another.
package kcont

import (
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// NewRoot builds the outermost continuation: applying it ends the
// trampoline and hands its argument back to whatever started
// evaluation.
func NewRoot() *value.Value {
	return value.NewContinuation(nil, value.Nil, func(val *value.Value) value.Step {
		return value.StepDone(val)
	})
}

// IsRoot reports whether cc is a root continuation (no parent).
func IsRoot(cc *value.Value) bool {
	return value.IsContinuation(cc) && cc.Cont.Parent == nil
}

// Extend builds a new continuation whose parent is cc and whose Resume
// closure is resume; denv is recorded for introspection only.
func Extend(cc, denv *value.Value, resume func(val *value.Value) value.Step) *value.Value {
	return value.NewContinuation(cc, denv, resume)
}

// Apply delivers val to cc — the realization of "apply-cc": invoke
// the continuation's stored function with val,
// letting its own return value (the next trampoline Step) decide what
// happens next, including which continuation (typically cc's parent)
// work continues under.
func Apply(cc, val *value.Value) value.Step {
	if !value.IsContinuation(cc) {
		return value.StepFail(kerror.New(kerror.KindType, "apply-continuation: not a continuation"))
	}
	return cc.Cont.Resume(val)
}

// IsAncestor reports whether candidate occurs somewhere in of's parent
// chain (candidate itself counts). It marks the chain once, queries,
// then clears every mark it set — a single mark-and-sweep pass rather
// than repeated linear scans.
func IsAncestor(candidate, of *value.Value) bool {
	if !value.IsContinuation(candidate) || !value.IsContinuation(of) {
		return false
	}
	var marked []*value.Value
	for cur := of; value.IsContinuation(cur); cur = cur.Cont.Parent {
		cur.Cont.SetAncestorMark(true)
		marked = append(marked, cur)
	}
	result := candidate.Cont.AncestorMark()
	for _, m := range marked {
		m.Cont.SetAncestorMark(false)
	}
	return result
}
