package cache

import (
	"fmt"
	"sort"
	"strings"
)

// CallKey is a canonicalized call-argument pattern, usable as a cache key.
//
// Positional arguments keep their order; named arguments are sorted by
// name, so the spelling order of named arguments never creates distinct
// keys. Positional and named expressions of "the same" logical argument
// are NOT unified: Key(1, 2), KeyNamed(nil, Named("a", 1), Named("b", 2))
// and the latter with its arguments swapped are, respectively, two
// distinct keys and one shared key. Values are compared by type as well as
// by rendered value, so 1 and "1" never collide.
type CallKey struct {
	repr string
}

func (k CallKey) String() string { return k.repr }

// NamedArg is a name/value argument for KeyNamed.
type NamedArg struct {
	Name  string
	Value any
}

// Named builds a NamedArg.
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// Key canonicalizes a purely positional argument pattern.
func Key(args ...any) CallKey {
	return KeyNamed(args)
}

// KeyNamed canonicalizes a call pattern of positional arguments followed by
// named arguments. Named argument names should be unique.
func KeyNamed(pos []any, named ...NamedArg) CallKey {
	var sb strings.Builder
	for _, v := range pos {
		writeValue(&sb, v)
	}
	if len(named) > 0 {
		// Marker keeping f(1, 2) distinct from f(a=1, b=2).
		sb.WriteString("*|")
		sorted := make([]NamedArg, len(named))
		copy(sorted, named)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, a := range sorted {
			sb.WriteString(a.Name)
			sb.WriteByte('=')
			writeValue(&sb, a.Value)
		}
	}
	return CallKey{repr: sb.String()}
}

func writeValue(sb *strings.Builder, v any) {
	fmt.Fprintf(sb, "%T:%#v|", v, v)
}
