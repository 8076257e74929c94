// Package kenv implements the first-class environment: a multi-parent
// DAG of binding frames plus a separate keyed chain for dynamic
// variables, looked up iteratively so a deep parent graph can't grow
// the host stack.
//
// Grounded on original_source/src/kenvironment.c (kmake_environment,
// kadd_binding, try_get_binding/kget_binding, kmake_keyed_static_env,
// try_get_keyed/kget_keyed_static_var).
package kenv

import (
	"golang.org/x/exp/slices"

	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// Make builds a fresh, alist-backed environment with the given parents
// (value.Nil, a single environment, or a proper list of environments).
func Make(parents *value.Value) *value.Value {
	return value.NewEnvironment(value.NewEnvData(parents))
}

// MakeTable builds a fresh, hash-table-backed environment, the
// representation the standard/ground environment needs once it holds
// hundreds of bindings.
func MakeTable(parents *value.Value) *value.Value {
	return value.NewEnvironment(value.NewTableEnvData(parents))
}

// AddBinding adds or rebinds sym to val in env's local frame. It is an
// error to bind into an immutable environment.
func AddBinding(env *value.Value, sym string, val *value.Value) error {
	if !value.IsEnvironment(env) {
		return kerror.New(kerror.KindType, "add-binding: not an environment")
	}
	if !env.IsMutable() {
		return kerror.New(kerror.KindImmutable, "add-binding: immutable environment")
	}
	env.Env.AddLocal(sym, val)
	return nil
}

// Lookup searches env and its ancestors (in left-to-right, depth-first
// order) for sym, returning an unbound-variable-error if no frame
// binds it. The search is iterative over an explicit slice stack
// mirroring try_get_binding's work-stack so the host stack depth
// doesn't track the parent graph's depth, and a visited set guards
// against revisiting the same environment twice in a diamond-shaped
// parent DAG.
func Lookup(env *value.Value, sym string) (*value.Value, error) {
	visited := make(map[*value.Value]bool)
	stack := []*value.Value{env}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !value.IsEnvironment(cur) || visited[cur] {
			continue
		}
		visited[cur] = true
		if v, ok := cur.Env.FindLocal(sym); ok {
			return v, nil
		}
		pushParents(&stack, cur.Env.Parents)
	}
	return nil, kerror.New(kerror.KindUnboundVariable, "unbound variable: %s", sym).Continuable()
}

// pushParents flattens parents (Nil, a single environment, or a proper
// list of environments) onto stack in reverse so that popping the
// stack visits them in their original left-to-right order.
func pushParents(stack *[]*value.Value, parents *value.Value) {
	switch {
	case value.IsNil(parents):
		return
	case value.IsEnvironment(parents):
		*stack = append(*stack, parents)
	case value.IsPair(parents):
		var items []*value.Value
		for cur := parents; value.IsPair(cur); cur = cur.Cdr {
			items = append(items, cur.Car)
		}
		slices.Reverse(items)
		*stack = append(*stack, items...)
	}
}

// MakeKeyedStatic wraps a (key . value) binding as a new keyed frame
// chained onto parent's own keyed chain, collapsing to a direct
// reference when there is exactly one keyed ancestor (kmake_keyed_
// static_env's "parents" field is single-valued whenever the chain
// isn't actually branching, which is the only shape this module's
// keyed variables ever produce).
func MakeKeyedStatic(parent *value.Value, key, val *value.Value) *value.Value {
	data := value.NewEnvData(value.Nil)
	data.KeyedNode = value.NewPair(key, val)
	if value.IsEnvironment(parent) {
		data.KeyedParents = parent
	} else {
		data.KeyedParents = value.Nil
	}
	return value.NewEnvironment(data)
}

// GetKeyedVar searches env's keyed chain (not its ordinary parents) for
// a frame whose key is Eq to key, returning an unbound-keyed error,
// marked continuable like Lookup's unbound-variable-error, if no frame
// along the chain binds it.
func GetKeyedVar(env *value.Value, key *value.Value) (*value.Value, error) {
	seen := map[*value.Value]bool{}
	for cur := env; value.IsEnvironment(cur) && !seen[cur]; {
		seen[cur] = true
		if cur.Env.IsKeyed() && value.Eq(cur.Env.KeyedNode.Car, key) {
			return cur.Env.KeyedNode.Cdr, nil
		}
		cur = cur.Env.KeyedParents
	}
	return nil, kerror.New(kerror.KindUnboundKeyed, "unbound keyed variable").Continuable()
}

// FlattenKeyedChain returns every keyed frame from env up through its
// keyed ancestors, used by $let-safe-style constructs that need to
// check whether a key is already bound before adding it again.
func FlattenKeyedChain(env *value.Value) []*value.Value {
	var out []*value.Value
	for cur := env; value.IsEnvironment(cur) && !slices.Contains(out, cur); {
		if cur.Env.IsKeyed() {
			out = append(out, cur)
		}
		cur = cur.Env.KeyedParents
	}
	return out
}
