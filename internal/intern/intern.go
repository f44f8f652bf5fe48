// Package intern deduplicates strings into small, stable, cheaply-comparable
// keys shared across a single parse/index session.
//
// There is no suitable third-party interning library in the retrieval pack
// (the closest analogue, original_source's parallel segmented-list
// interner, is a concurrent allocator-avoidance structure for a different
// language's ownership model); a map plus an append-only slice is the
// idiomatic Go shape for this and is what this package uses.
package intern

// Key is a small, stable identifier for an interned string. The zero Key is
// never produced by Interner.Intern; it is reserved as a sentinel for
// "no identifier" in callers that embed Key in larger structs.
type Key uint32

// Interner maps strings to Keys and back. The zero value is ready to use.
// Interner is not safe for concurrent use; per §5 of the specification the
// interner is the serial point of an Index and is only ever mutated while
// that Index is being loaded.
type Interner struct {
	keys    map[string]Key
	strings []string
}

// New returns a ready-to-use Interner.
func New() *Interner {
	return &Interner{keys: make(map[string]Key)}
}

// Intern inserts s if it is not already present and returns its Key. Two
// calls with equal strings always return equal Keys.
func (in *Interner) Intern(s string) Key {
	if in.keys == nil {
		in.keys = make(map[string]Key)
	}
	if k, ok := in.keys[s]; ok {
		return k
	}
	in.strings = append(in.strings, s)
	k := Key(len(in.strings)) // 1-based so the zero Key stays reserved
	in.keys[s] = k
	return k
}

// Resolve returns the string previously interned under k, and false if k was
// never produced by this Interner.
func (in *Interner) Resolve(k Key) (string, bool) {
	if k == 0 || int(k) > len(in.strings) {
		return "", false
	}
	return in.strings[k-1], true
}

// MustResolve is Resolve but panics on an unknown key; used where the
// caller holds a Key it is certain this Interner produced.
func (in *Interner) MustResolve(k Key) string {
	s, ok := in.Resolve(k)
	if !ok {
		panic("intern: unknown key")
	}
	return s
}

// Len reports the number of distinct strings interned so far.
func (in *Interner) Len() int {
	return len(in.strings)
}
