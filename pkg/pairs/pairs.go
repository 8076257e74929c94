// Package pairs implements cycle-aware list utilities: list metrics
// (length/cycle detection in O(1) extra space), typed-list checking, a
// structure-preserving deep copy, and the two destructive structural
// mutators (encycle!, append!).
//
// Grounded on original_source/src/kgpair_mut.c (encycleB, appendB,
// appendB_get_lss_endpoints, copy_es_immutable_h, assq, memqp) and this
// module's own cons-cell helpers in pkg/value/value.go.
package pairs

import (
	"kernelgo/pkg/gcroot"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// Info is the result of Metrics: the length of the list's acyclic
// prefix, the length of its cycle (0 if none), whether the (necessarily
// acyclic) tail is a proper end-of-list, and the last pair reached,
// used by Append to find a splice point without a second traversal.
type Info struct {
	PrefixLen int
	CycleLen  int
	Proper    bool
	LastPair  *value.Value
}

// Metrics walks ls with Floyd's tortoise-and-hare (O(1) extra space) to
// determine its shape without assuming it terminates. This is a
// deliberate alternative to the mark-bit-piggyback technique
// kgpair_mut.c uses elsewhere: a read-only length/cycle probe has
// nothing to restore afterwards, so there is no piggybacked state to
// bracket — MarkEpoch is reserved for algorithms that build or mutate
// structure while they walk (CopyEsImmutable, Encycle).
func Metrics(ls *value.Value) Info {
	if !value.IsPair(ls) {
		return Info{Proper: value.IsNil(ls)}
	}
	slow, fast := ls, ls
	cyclic := false
	for value.IsPair(fast) && value.IsPair(fast.Cdr) {
		slow = slow.Cdr
		fast = fast.Cdr.Cdr
		if slow == fast {
			cyclic = true
			break
		}
	}
	if !cyclic {
		length, last, cur := 0, ls, ls
		for value.IsPair(cur) {
			length++
			last = cur
			cur = cur.Cdr
		}
		return Info{PrefixLen: length, Proper: value.IsNil(cur), LastPair: last}
	}

	p1, p2 := ls, slow
	mu := 0
	for p1 != p2 {
		p1 = p1.Cdr
		p2 = p2.Cdr
		mu++
	}
	lambda := 1
	for cur := p1.Cdr; cur != p1; cur = cur.Cdr {
		lambda++
	}
	return Info{PrefixLen: mu, CycleLen: lambda, LastPair: p1}
}

// CheckProperList reports a structure-error unless ls is a finite, nil
// terminated list.
func CheckProperList(who string, ls *value.Value) error {
	info := Metrics(ls)
	if info.CycleLen > 0 || !info.Proper {
		return kerror.New(kerror.KindStructure, "%s: expected a proper list", who)
	}
	return nil
}

// CheckTypedList walks a (possibly cyclic) list checking every distinct
// element against pred, and returns how many distinct elements it
// checked before either running off the acyclic end or completing one
// full cycle revolution — mirroring check_typed_list's "cyclic lists
// only need one lap" discipline used throughout kgnumbers.c.
func CheckTypedList(who, typeName string, ls *value.Value, pred func(*value.Value) bool) (int, error) {
	info := Metrics(ls)
	count := 0
	cur := ls
	limit := info.PrefixLen + info.CycleLen
	for i := 0; i < limit; i++ {
		if !value.IsPair(cur) {
			return count, kerror.New(kerror.KindStructure, "%s: improper list", who)
		}
		if !pred(cur.Car) {
			return count, kerror.New(kerror.KindType, "%s: expected a list of %s", who, typeName)
		}
		count++
		cur = cur.Cdr
	}
	if info.CycleLen == 0 && !info.Proper {
		return count, kerror.New(kerror.KindStructure, "%s: improper list", who)
	}
	return count, nil
}

// CopyEsImmutable deep-copies the pair spine of ls, preserving shared
// structure and cycles exactly (a shared sub-list is shared in the
// copy too; a cycle is a cycle in the copy too). Only pairs are
// copied — every other value is shared between the original and the
// copy, matching copy_es_immutable_h's "extended spine" semantics.
// When produceMutable is false the copy's pairs are built immutable,
// which is how the Kernel operand tree is captured by $vau so the
// combiner body can't see later mutation of its caller's argument
// list.
//
// Grounded on original_source/src/kgpair_mut.c's copy_es_immutable_h,
// an explicit work-stack (its ST_PUSH/ST_CAR/ST_CDR states) walking
// the pair graph so host stack depth stays bounded by recursion depth
// of the explicit stack slice rather than by Go call frames, the same
// discipline the evaluator trampoline uses for tail positions.
func CopyEsImmutable(ls *value.Value, produceMutable bool) *value.Value {
	if !value.IsPair(ls) {
		return ls
	}

	epoch := NewMarkEpoch()
	defer epoch.Close()
	guard := gcroot.New()

	makeNew := func() *value.Value {
		if produceMutable {
			return value.NewPair(value.Inert, value.Inert)
		}
		return value.NewImmutablePair(value.Inert, value.Inert)
	}

	type frame struct {
		old, newp *value.Value
		doneCar   bool
	}

	root := makeNew()
	rootIdx := guard.Push(root)
	epoch.Visit(ls, root)
	stack := []*frame{{old: ls, newp: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.doneCar {
			top.doneCar = true
			carOld := top.old.Car
			if value.IsPair(carOld) {
				if existing := epoch.Aux(carOld); existing != nil {
					top.newp.Car = existing
				} else {
					newCar := makeNew()
					idx := guard.Push(newCar)
					epoch.Visit(carOld, newCar)
					top.newp.Car = newCar
					guard.PopTo(idx)
					stack = append(stack, &frame{old: carOld, newp: newCar})
				}
			} else {
				top.newp.Car = carOld
			}
			continue
		}
		cdrOld := top.old.Cdr
		if value.IsPair(cdrOld) {
			if existing := epoch.Aux(cdrOld); existing != nil {
				top.newp.Cdr = existing
				stack = stack[:len(stack)-1]
			} else {
				newCdr := makeNew()
				idx := guard.Push(newCdr)
				epoch.Visit(cdrOld, newCdr)
				top.newp.Cdr = newCdr
				guard.PopTo(idx)
				stack[len(stack)-1] = &frame{old: cdrOld, newp: newCdr}
			}
		} else {
			top.newp.Cdr = cdrOld
			stack = stack[:len(stack)-1]
		}
	}
	guard.PopTo(rootIdx)
	return root
}

// Encycle destructively links obj into a cycle: it walks k1 pairs of
// acyclic prefix, then k2 pairs forming the cycle body, and sets the
// last of those k2 pairs' cdr back to the first pair of the cycle body
// (a no-op when k2 is 0). Matches encycleB in kgpair_mut.c, including
// its three failure modes: a negative index, running off a non-pair
// before k1+k2 pairs are found, and finding an already-cyclic (marked)
// pair sooner than that — "too few pairs in cyclic list".
func Encycle(obj *value.Value, k1, k2 int) error {
	if k1 < 0 || k2 < 0 {
		return kerror.New(kerror.KindRange, "encycle!: negative index")
	}

	epoch := NewMarkEpoch()
	defer epoch.Close()

	tail := obj
	for i := 0; i < k1; i++ {
		if !value.IsPair(tail) {
			return kerror.New(kerror.KindRange, "encycle!: non pair found while traversing object")
		}
		if !epoch.Visit(tail, value.Inert) {
			return kerror.New(kerror.KindRange, "encycle!: too few pairs in cyclic list")
		}
		tail = tail.Cdr
	}
	if k2 == 0 {
		return nil
	}
	if !value.IsPair(tail) {
		return kerror.New(kerror.KindRange, "encycle!: non pair found while traversing object")
	}
	if !epoch.Visit(tail, value.Inert) {
		return kerror.New(kerror.KindRange, "encycle!: too few pairs in cyclic list")
	}
	firstCyclePair := tail
	last := firstCyclePair
	for i := 0; i < k2-1; i++ {
		if !value.IsPair(last.Cdr) {
			return kerror.New(kerror.KindRange, "encycle!: non pair found while traversing object")
		}
		last = last.Cdr
		if !epoch.Visit(last, value.Inert) {
			return kerror.New(kerror.KindRange, "encycle!: too few pairs in cyclic list")
		}
	}
	if !last.IsMutable() {
		return kerror.New(kerror.KindImmutable, "encycle!: immutable pair")
	}
	last.Cdr = firstCyclePair
	return nil
}

// Append splices lists together destructively, reusing every pair of
// every argument. Per the Kernel report (and klisp's appendB), every
// argument but the last must be a finite proper list; the last may be
// any list, including an improper or cyclic one, and is used as-is to
// terminate the splice.
func Append(lists []*value.Value) (*value.Value, error) {
	if len(lists) == 0 {
		return value.Nil, nil
	}
	dummy := gcroot.Dummy()
	tail := dummy
	for i, ls := range lists {
		if i == len(lists)-1 {
			tail.Cdr = ls
			break
		}
		info := Metrics(ls)
		if info.CycleLen > 0 || !info.Proper {
			return nil, kerror.New(kerror.KindStructure, "append!: all arguments but the last must be proper lists")
		}
		if info.PrefixLen == 0 {
			continue
		}
		if !info.LastPair.IsMutable() {
			return nil, kerror.New(kerror.KindImmutable, "append!: immutable pair found")
		}
		tail.Cdr = ls
		tail = info.LastPair
	}
	return dummy.Cdr, nil
}

// Assq returns the first pair in the association list alist whose car
// is Eq to key, or Nil if none matches.
func Assq(key, alist *value.Value) *value.Value {
	for cur := alist; value.IsPair(cur); cur = cur.Cdr {
		entry := cur.Car
		if value.IsPair(entry) && value.Eq(entry.Car, key) {
			return entry
		}
	}
	return value.Nil
}

// Memqp reports whether obj occurs (by Eq) among ls's elements.
func Memqp(obj, ls *value.Value) bool {
	for cur := ls; value.IsPair(cur); cur = cur.Cdr {
		if value.Eq(cur.Car, obj) {
			return true
		}
	}
	return false
}
