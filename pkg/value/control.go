package value

import "io"

// Step is one bounce of the evaluator trampoline: either
// a finished computation (Done/Val/Err) or a thunk producing the next
// Step. It lives here rather than in pkg/eval so that the Go closures
// stored on Operative and Continuation values — which belong to this
// package — can build and return Steps without an import cycle back to
// the package that drives them.
type Step struct {
	Done bool
	Val  *Value
	Err  error
	Next func() Step
}

// StepBounce wraps a thunk as a not-yet-done Step.
func StepBounce(next func() Step) Step { return Step{Next: next} }

// StepDone wraps a final value as a completed Step.
func StepDone(v *Value) Step { return Step{Done: true, Val: v} }

// StepFail wraps an error as a completed, failed Step.
func StepFail(err error) Step { return Step{Done: true, Err: err} }

// NativeOperative is the signature of a combiner implemented in Go. It
// receives its operand tree exactly as written (unevaluated — that is
// the defining trait of an operative), the dynamic
// environment it was invoked in, and the continuation its result must
// be delivered to, and returns the next trampoline Step.
type NativeOperative func(operands, denv, cc *Value) Step

// CombData holds the fields of an Operative or Applicative value. A
// primitive operative has Prim set; a derived
// operative instead captures a parameter tree, an environment-formal,
// a body and the static environment it closed over. An applicative
// only ever uses Underlying.
type CombData struct {
	Prim      NativeOperative
	PrimExtra []*Value
	PrimName  string

	Params    *Value
	EnvFormal *Value
	Body      *Value
	StaticEnv *Value

	Underlying *Value
}

// IsPrimitive reports whether c describes a primitive (as opposed to
// derived) operative.
func (c *CombData) IsPrimitive() bool { return c.Prim != nil }

// ContData holds the fields of a Continuation value: a
// parent continuation, the function to resume with (the Go realization
// of "native function pointer plus captured extra-parameters" — a
// closure captures both at once), and the dynamic environment it was
// created under. ancestorMark is scratch space for the is-ancestor?
// probe and is always cleared before the probe returns.
type ContData struct {
	Parent *Value
	Resume func(val *Value) Step
	Denv   *Value

	ancestorMark bool
}

// AncestorMark/SetAncestorMark expose ContData's private scratch mark.
func (c *ContData) AncestorMark() bool     { return c.ancestorMark }
func (c *ContData) SetAncestorMark(m bool) { c.ancestorMark = m }

// PortFile is the minimal file-like surface a port needs; *os.File
// satisfies it and tests can supply an in-memory fake.
type PortFile interface {
	io.Reader
	io.Writer
	Close() error
}

// PortData holds the fields of a Port value. The port
// contract is implemented here; no reader or printer attaches to it —
// those remain external collaborators per the scope boundary.
type PortData struct {
	File     PortFile
	Filename string
}

// NewOperative wraps a primitive Go implementation as an Operative
// value.
func NewOperative(name string, fn NativeOperative, extra []*Value) *Value {
	return &Value{header: header{tag: TOperative}, Comb: &CombData{Prim: fn, PrimExtra: extra, PrimName: name}}
}

// NewDerivedOperative builds a derived Operative value from a captured
// parameter tree, environment-formal, body and static environment.
func NewDerivedOperative(params, envFormal, body, staticEnv *Value) *Value {
	return &Value{header: header{tag: TOperative}, Comb: &CombData{
		Params:    params,
		EnvFormal: envFormal,
		Body:      body,
		StaticEnv: staticEnv,
	}}
}

// NewApplicative wraps comb (an operative or another applicative) one
// level deeper, completing the wrap/unwrap pair.
func NewApplicative(comb *Value) *Value {
	return &Value{header: header{tag: TApplicative}, Comb: &CombData{Underlying: comb}}
}

// NewContinuation builds a Continuation value whose Resume closure runs
// when the continuation is applied to a value.
func NewContinuation(parent *Value, denv *Value, resume func(val *Value) Step) *Value {
	return &Value{header: header{tag: TContinuation}, Cont: &ContData{Parent: parent, Denv: denv, Resume: resume}}
}

// NewPort wraps an open file-like handle as a Port value. dirFlags
// should be FlagPortInput and/or FlagPortOutput.
func NewPort(file PortFile, filename string, dirFlags Flags) *Value {
	return &Value{header: header{tag: TPort, flags: dirFlags}, Port: &PortData{File: file, Filename: filename}}
}
