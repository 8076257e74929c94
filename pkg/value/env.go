package value

// EnvData holds the fields of an Environment value: parents, a binding
// store, the precomputed keyed-parents closure and
// an optional keyed-node. Grounded on original_source/src/kenvironment.c
// (kmake_environment, kadd_binding, kfind_local_binding).
type EnvData struct {
	// Parents is Nil, a single environment Value, or a proper list of
	// environments — lookup treats all three uniformly.
	Parents *Value

	bindings bindingStore

	// KeyedParents is the transitive closure of keyed ancestors,
	// collapsed to a single environment when there is exactly one
	// (mirrors kenvironment.c's kparents construction).
	KeyedParents *Value

	// KeyedNode is (key . value) when this frame is a keyed-dynamic
	// frame, or Nil otherwise.
	KeyedNode *Value
}

type bindingEntry struct {
	Sym string
	Val *Value
}

// bindingStore abstracts the two binding representations an
// environment can use: an ordinary association list for normal
// lexical frames and a hash table for the (ground) environment that
// gets too wide for an alist to stay cheap.
type bindingStore interface {
	find(sym string) (*Value, bool)
	add(sym string, val *Value)
	each(fn func(sym string, val *Value))
}

type alistStore struct {
	entries []bindingEntry
}

func (s *alistStore) find(sym string) (*Value, bool) {
	// Unordered mapping; linear scan is correct for the
	// small frames this store is meant for.
	for i := range s.entries {
		if s.entries[i].Sym == sym {
			return s.entries[i].Val, true
		}
	}
	return nil, false
}

func (s *alistStore) add(sym string, val *Value) {
	for i := range s.entries {
		if s.entries[i].Sym == sym {
			s.entries[i].Val = val
			return
		}
	}
	s.entries = append(s.entries, bindingEntry{sym, val})
}

func (s *alistStore) each(fn func(sym string, val *Value)) {
	for _, e := range s.entries {
		fn(e.Sym, e.Val)
	}
}

type tableStore struct {
	m map[string]*Value
}

func (s *tableStore) find(sym string) (*Value, bool) {
	v, ok := s.m[sym]
	return v, ok
}

func (s *tableStore) add(sym string, val *Value) { s.m[sym] = val }

func (s *tableStore) each(fn func(sym string, val *Value)) {
	for k, v := range s.m {
		fn(k, v)
	}
}

// NewEnvData builds an alist-backed environment with the given parents.
func NewEnvData(parents *Value) *EnvData {
	return &EnvData{Parents: parents, bindings: &alistStore{}, KeyedParents: Nil, KeyedNode: Nil}
}

// NewTableEnvData builds a hash-table-backed environment, used for the
// ground/standard environment.
func NewTableEnvData(parents *Value) *EnvData {
	return &EnvData{Parents: parents, bindings: &tableStore{m: make(map[string]*Value)}, KeyedParents: Nil, KeyedNode: Nil}
}

// FindLocal looks up sym among this environment's own bindings only
// (no parent traversal).
func (e *EnvData) FindLocal(sym string) (*Value, bool) { return e.bindings.find(sym) }

// AddLocal rebinds sym if already local, otherwise adds a fresh
// binding (appended, for the alist store).
func (e *EnvData) AddLocal(sym string, val *Value) { e.bindings.add(sym, val) }

// EachLocal visits every local binding; order is unspecified for the
// table store and insertion order for the alist store.
func (e *EnvData) EachLocal(fn func(sym string, val *Value)) { e.bindings.each(fn) }

// IsKeyed reports whether this environment carries a keyed-node.
func (e *EnvData) IsKeyed() bool { return !IsNil(e.KeyedNode) }

// NewEnvironment wraps data as an Environment value.
func NewEnvironment(data *EnvData) *Value {
	return &Value{header: header{tag: TEnvironment, flags: FlagMutable}, Env: data}
}
