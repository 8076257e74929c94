// Package value defines the tagged-union object model shared by every
// other package in this module: pairs, symbols, strings, environments,
// combiners, continuations and ports, plus the small set of immediate
// constants (nil, inert, ignore, true, false, the empty-environment
// marker and the two exact infinities).
//
// One tagged struct with a Tag discriminator, NewXxx constructors and
// IsXxx predicates, adapted to klisp's object model
// (original_source/src/kenvironment.c, kport.c).
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag discriminates the variant held by a Value with a single load.
type Tag uint8

const (
	TNil Tag = iota
	TInert
	TIgnore
	TTrue
	TFalse
	TEmptyEnv
	TPosInf
	TNegInf
	TFixint
	TChar
	TPair
	TString
	TSymbol
	TEnvironment
	TOperative
	TApplicative
	TContinuation
	TPort
)

func (t Tag) String() string {
	switch t {
	case TNil:
		return "nil"
	case TInert:
		return "inert"
	case TIgnore:
		return "ignore"
	case TTrue:
		return "true"
	case TFalse:
		return "false"
	case TEmptyEnv:
		return "empty-env"
	case TPosInf:
		return "+infinity"
	case TNegInf:
		return "-infinity"
	case TFixint:
		return "fixint"
	case TChar:
		return "char"
	case TPair:
		return "pair"
	case TString:
		return "string"
	case TSymbol:
		return "symbol"
	case TEnvironment:
		return "environment"
	case TOperative:
		return "operative"
	case TApplicative:
		return "applicative"
	case TContinuation:
		return "continuation"
	case TPort:
		return "port"
	default:
		return fmt.Sprintf("unknown-tag(%d)", uint8(t))
	}
}

// Flags is the GC header's flags byte.
type Flags uint8

const (
	FlagMutable Flags = 1 << iota
	FlagMarkedForTraversal
	FlagPortInput
	FlagPortOutput
	FlagPortClosed
	FlagStringImmutable
)

// FixintBits is the width of the Kernel fixed integer (signed).
const FixintBits = 30

// FixintMax and FixintMin bound the representable fixint range.
const (
	FixintMax = 1<<(FixintBits-1) - 1
	FixintMin = -1 << (FixintBits - 1)
)

// header is embedded by every boxed Value: a GC allocation-list link, a
// mark/color byte owned by the (out-of-scope) collector, the variant
// tag and the flags byte.
type header struct {
	next  *Value
	color uint8
	tag   Tag
	flags Flags

	// scratch is transient storage piggybacked on the mark bit by
	// cycle-aware pair algorithms (pkg/pairs): a borrowed
	// word that stands in for the "auxiliary field" a real collector
	// would give a forwarded/visited cell. Every algorithm that sets it
	// must restore it to nil before returning, success or error.
	scratch *Value
}

func (h *header) IsMutable() bool              { return h.flags&FlagMutable != 0 }
func (h *header) SetMutable(v bool)             { h.setFlag(FlagMutable, v) }
func (h *header) IsMarkedForTraversal() bool    { return h.flags&FlagMarkedForTraversal != 0 }
func (h *header) SetMarkedForTraversal(v bool)  { h.setFlag(FlagMarkedForTraversal, v) }

func (h *header) setFlag(f Flags, v bool) {
	if v {
		h.flags |= f
	} else {
		h.flags &^= f
	}
}

// SourceInfo records where a symbol (or, via a pair's owner, a form)
// came from. The reader is out of scope; this is populated only by
// whatever external reader a caller plugs in.
type SourceInfo struct {
	Filename string
	Line     int
	Col      int
}

// Value is the tagged union. Every boxed variant embeds header; a
// switch on Tag picks which of the variant-specific pointers below is
// meaningful.
type Value struct {
	header

	// TFixint
	Int int32

	// TChar
	Ch byte

	// TPair
	Car, Cdr *Value

	// TSymbol
	Sym     string
	SymInfo *SourceInfo

	// TString: mutable byte buffer. The empty string is canonical (see Empty).
	Str []byte

	// TEnvironment
	Env *EnvData

	// TOperative / TApplicative
	Comb *CombData

	// TContinuation
	Cont *ContData

	// TPort
	Port *PortData
}

// Singleton immediate values. Immediates never carry mutable state, so
// sharing a single allocation per tag is safe: each is a unique
// constant.
var (
	Nil      = &Value{header: header{tag: TNil}}
	Inert    = &Value{header: header{tag: TInert}}
	Ignore   = &Value{header: header{tag: TIgnore}}
	True     = &Value{header: header{tag: TTrue}}
	False    = &Value{header: header{tag: TFalse}}
	EmptyEnv = &Value{header: header{tag: TEmptyEnv}}
	PosInf   = &Value{header: header{tag: TPosInf}}
	NegInf   = &Value{header: header{tag: TNegInf}}

	// Empty is the canonical shared empty string.
	Empty = &Value{header: header{tag: TString, flags: FlagStringImmutable}, Str: nil}
)

// Bool maps a Go bool to the Kernel #t/#f immediates.
func Bool(b bool) *Value {
	if b {
		return True
	}
	return False
}

// NewFixint wraps i into a fixint. Overflow of FixintMin/FixintMax is
// left to the caller: arithmetic in pkg/knum documents this explicitly
// rather than guarding it, matching klisp's undefined overflow
// behavior.
func NewFixint(i int32) *Value {
	return &Value{header: header{tag: TFixint}, Int: i}
}

// NewChar creates a byte-wide (ASCII-range) character value.
func NewChar(c byte) *Value {
	return &Value{header: header{tag: TChar}, Ch: c}
}

// NewPair creates a fresh, mutable cons cell.
func NewPair(car, cdr *Value) *Value {
	return &Value{header: header{tag: TPair, flags: FlagMutable}, Car: car, Cdr: cdr}
}

// NewImmutablePair creates a cons cell with the mutable flag clear.
func NewImmutablePair(car, cdr *Value) *Value {
	return &Value{header: header{tag: TPair}, Car: car, Cdr: cdr}
}

// NewSymbol creates a symbol. Symbols with equal Sym are Equal but need
// not be Eq (see Eq/Equal below).
func NewSymbol(name string) *Value {
	return &Value{header: header{tag: TSymbol}, Sym: name}
}

// NewSymbolAt attaches source-info to a freshly read symbol.
func NewSymbolAt(name string, si *SourceInfo) *Value {
	return &Value{header: header{tag: TSymbol}, Sym: name, SymInfo: si}
}

// NewString creates a mutable string from the given bytes.
func NewString(s string) *Value {
	if s == "" {
		return Empty
	}
	return &Value{header: header{tag: TString, flags: FlagMutable}, Str: []byte(s)}
}

// NewImmutableString creates an immutable string.
func NewImmutableString(s string) *Value {
	if s == "" {
		return Empty
	}
	return &Value{header: header{tag: TString, flags: FlagStringImmutable}, Str: []byte(s)}
}

// Predicates. Every one tolerates a nil *Value (treated as "not this
// type") so callers don't need to nil-check before dispatching.

func IsNil(v *Value) bool      { return v != nil && v.tag == TNil }
func IsInert(v *Value) bool    { return v != nil && v.tag == TInert }
func IsIgnore(v *Value) bool   { return v != nil && v.tag == TIgnore }
func IsBool(v *Value) bool     { return v != nil && (v.tag == TTrue || v.tag == TFalse) }
func IsTrue(v *Value) bool     { return v != nil && v.tag == TTrue }
func IsPair(v *Value) bool     { return v != nil && v.tag == TPair }
func IsString(v *Value) bool   { return v != nil && v.tag == TString }
func IsSymbol(v *Value) bool   { return v != nil && v.tag == TSymbol }
func IsChar(v *Value) bool     { return v != nil && v.tag == TChar }
func IsFixint(v *Value) bool   { return v != nil && v.tag == TFixint }
func IsEinf(v *Value) bool     { return v != nil && (v.tag == TPosInf || v.tag == TNegInf) }
func IsNumber(v *Value) bool   { return IsFixint(v) || IsEinf(v) }
func IsEnvironment(v *Value) bool  { return v != nil && v.tag == TEnvironment }
func IsOperative(v *Value) bool    { return v != nil && v.tag == TOperative }
func IsApplicative(v *Value) bool  { return v != nil && v.tag == TApplicative }
func IsCombiner(v *Value) bool     { return IsOperative(v) || IsApplicative(v) }
func IsContinuation(v *Value) bool { return v != nil && v.tag == TContinuation }
func IsPort(v *Value) bool        { return v != nil && v.tag == TPort }

// Tag returns the variant tag (TNil for a nil *Value, matching the
// reference's "nil pointer behaves like the empty list" convention
// used only at the edges — core algorithms still check IsNil first).
func (v *Value) Tag() Tag {
	if v == nil {
		return TNil
	}
	return v.tag
}

func (v *Value) IsMutable() bool             { return v != nil && v.header.IsMutable() }
func (v *Value) SetMutable(m bool)           { v.header.SetMutable(m) }
func (v *Value) markedForTraversal() bool    { return v != nil && v.header.IsMarkedForTraversal() }
func (v *Value) setMarkedForTraversal(m bool) { v.header.SetMarkedForTraversal(m) }

// MarkedForTraversal and SetMarked expose the single mark
// bit that the cycle-aware algorithms in pkg/pairs borrow. Exported so
// pkg/pairs' MarkEpoch can bracket its use.
func (v *Value) MarkedForTraversal() bool       { return v.markedForTraversal() }
func (v *Value) SetMarked(m bool)               { v.setMarkedForTraversal(m) }

// Scratch and SetScratch expose the header's piggybacked auxiliary
// slot. Only pkg/pairs' cycle-aware algorithms may use it, and only
// inside a pairs.MarkEpoch bracket.
func (v *Value) Scratch() *Value      { return v.scratch }
func (v *Value) SetScratch(s *Value)  { v.scratch = s }

// Eq is pointer/immediate equality: for boxed values it is Go pointer
// identity; for the singleton immediates it is automatically pointer
// identity too, since each immediate has exactly one allocation.
func Eq(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TFixint:
		return a.Int == b.Int
	case TChar:
		return a.Ch == b.Ch
	default:
		return a == b
	}
}

// Equal is structural equality, co-inductive over pairs with cycle
// detection so that equal cyclic structures terminate instead of
// diverging. It uses a pair-of-visited-pairs set keyed
// by pointer identity rather than the mark-bit piggyback, because both
// arguments are walked simultaneously and neither one is "owned" by
// the algorithm the way a single-argument mark discipline assumes.
func Equal(a, b *Value) bool {
	return equalRec(a, b, map[pairKey]bool{})
}

type pairKey struct{ a, b *Value }

func equalRec(a, b *Value, seen map[pairKey]bool) bool {
	if Eq(a, b) {
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TSymbol:
		return a.Sym == b.Sym
	case TString:
		return string(a.Str) == string(b.Str)
	case TPair:
		key := pairKey{a, b}
		if seen[key] {
			// already comparing this exact pair of cells higher on the
			// stack: assume equal and let the rest of the structure decide.
			return true
		}
		seen[key] = true
		return equalRec(a.Car, b.Car, seen) && equalRec(a.Cdr, b.Cdr, seen)
	default:
		return false
	}
}

// List helpers shared by every package that builds small fixed lists.

func List1(a *Value) *Value { return NewPair(a, Nil) }
func List2(a, b *Value) *Value { return NewPair(a, NewPair(b, Nil)) }
func List3(a, b, c *Value) *Value { return NewPair(a, NewPair(b, NewPair(c, Nil))) }

// SliceToList builds a proper, freshly-consed list from items.
func SliceToList(items []*Value) *Value {
	result := Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = NewPair(items[i], result)
	}
	return result
}

// String renders v for diagnostics. It is not the Kernel printer (out
// of scope): it never emits datum labels for cycles, it just bounds
// the walk so a cyclic value doesn't hang the process.
func (v *Value) String() string {
	return stringDepth(v, 0, map[*Value]bool{})
}

const maxPrintDepth = 64

func stringDepth(v *Value, depth int, seen map[*Value]bool) string {
	if v == nil {
		return "()"
	}
	switch v.tag {
	case TNil:
		return "()"
	case TInert:
		return "#inert"
	case TIgnore:
		return "#ignore"
	case TTrue:
		return "#t"
	case TFalse:
		return "#f"
	case TEmptyEnv:
		return "#<empty-env-marker>"
	case TPosInf:
		return "#e+infinity"
	case TNegInf:
		return "#e-infinity"
	case TFixint:
		return strconv.FormatInt(int64(v.Int), 10)
	case TChar:
		return charString(v.Ch)
	case TSymbol:
		return v.Sym
	case TString:
		return strconv.Quote(string(v.Str))
	case TPair:
		if seen[v] || depth > maxPrintDepth {
			return "#<cycle>"
		}
		seen[v] = true
		var sb strings.Builder
		sb.WriteByte('(')
		cur := v
		first := true
		for IsPair(cur) {
			if seen[cur] && !first {
				sb.WriteString(" ...")
				cur = Nil
				break
			}
			seen[cur] = true
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			sb.WriteString(stringDepth(cur.Car, depth+1, seen))
			cur = cur.Cdr
		}
		if !IsNil(cur) {
			sb.WriteString(" . ")
			sb.WriteString(stringDepth(cur, depth+1, seen))
		}
		sb.WriteByte(')')
		return sb.String()
	case TEnvironment:
		return "#<environment>"
	case TOperative:
		return "#<operative>"
	case TApplicative:
		return "#<applicative>"
	case TContinuation:
		return "#<continuation>"
	case TPort:
		return "#<port>"
	default:
		return "#<unknown>"
	}
}

func charString(c byte) string {
	switch c {
	case '\n':
		return "#\\newline"
	case '\t':
		return "#\\tab"
	case '\r':
		return "#\\return"
	case ' ':
		return "#\\space"
	default:
		return fmt.Sprintf("#\\%c", c)
	}
}
