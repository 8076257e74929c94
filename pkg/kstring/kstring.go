// Package kstring implements string and character primitives: mutable
// fixed-length byte strings and single-byte characters. Case folding
// (char-upcase, char-downcase) and any comparison beyond ordinal
// equality/ordering are left unimplemented because they need the
// character-class tables that are explicitly out of scope, and
// guessing a table would be worse than leaving the gap visible.
package kstring

import (
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// Length returns a string's length in bytes.
func Length(s *value.Value) (int, error) {
	if !value.IsString(s) {
		return 0, kerror.New(kerror.KindType, "string-length: not a string")
	}
	return len(s.Str), nil
}

// Ref returns the character at index i.
func Ref(s *value.Value, i int) (*value.Value, error) {
	if !value.IsString(s) {
		return nil, kerror.New(kerror.KindType, "string-ref: not a string")
	}
	if i < 0 || i >= len(s.Str) {
		return nil, kerror.New(kerror.KindRange, "string-ref: index out of range")
	}
	return value.NewChar(s.Str[i]), nil
}

// SetB mutates the character at index i in place.
func SetB(s *value.Value, i int, c *value.Value) error {
	if !value.IsString(s) {
		return kerror.New(kerror.KindType, "string-set!: not a string")
	}
	if !s.IsMutable() {
		return kerror.New(kerror.KindImmutable, "string-set!: immutable string")
	}
	if !value.IsChar(c) {
		return kerror.New(kerror.KindType, "string-set!: not a character")
	}
	if i < 0 || i >= len(s.Str) {
		return kerror.New(kerror.KindRange, "string-set!: index out of range")
	}
	s.Str[i] = c.Ch
	return nil
}

// Copy returns a fresh mutable copy of s's bytes.
func Copy(s *value.Value) (*value.Value, error) {
	if !value.IsString(s) {
		return nil, kerror.New(kerror.KindType, "string-copy: not a string")
	}
	return value.NewString(string(s.Str)), nil
}

// Substring returns the mutable substring s[start:end).
func Substring(s *value.Value, start, end int) (*value.Value, error) {
	if !value.IsString(s) {
		return nil, kerror.New(kerror.KindType, "substring: not a string")
	}
	if start < 0 || end > len(s.Str) || start > end {
		return nil, kerror.New(kerror.KindRange, "substring: index out of range")
	}
	return value.NewString(string(s.Str[start:end])), nil
}

// Append concatenates strs into a fresh mutable string.
func Append(strs []*value.Value) (*value.Value, error) {
	total := 0
	for _, s := range strs {
		if !value.IsString(s) {
			return nil, kerror.New(kerror.KindType, "string-append: not a string")
		}
		total += len(s.Str)
	}
	buf := make([]byte, 0, total)
	for _, s := range strs {
		buf = append(buf, s.Str...)
	}
	return value.NewString(string(buf)), nil
}

// Equal reports byte-for-byte equality between two strings.
func Equal(a, b *value.Value) (bool, error) {
	if !value.IsString(a) || !value.IsString(b) {
		return false, kerror.New(kerror.KindType, "string=?: not a string")
	}
	return string(a.Str) == string(b.Str), nil
}

// ToList converts a string into a freshly consed list of characters.
func ToList(s *value.Value) (*value.Value, error) {
	if !value.IsString(s) {
		return nil, kerror.New(kerror.KindType, "string->list: not a string")
	}
	chars := make([]*value.Value, len(s.Str))
	for i, b := range s.Str {
		chars[i] = value.NewChar(b)
	}
	return value.SliceToList(chars), nil
}

// FromList builds a mutable string from a proper list of characters.
func FromList(ls *value.Value) (*value.Value, error) {
	var buf []byte
	for cur := ls; !value.IsNil(cur); cur = cur.Cdr {
		if !value.IsPair(cur) {
			return nil, kerror.New(kerror.KindStructure, "list->string: improper list")
		}
		if !value.IsChar(cur.Car) {
			return nil, kerror.New(kerror.KindType, "list->string: expected a list of characters")
		}
		buf = append(buf, cur.Car.Ch)
	}
	return value.NewString(string(buf)), nil
}

// CharEqual reports ordinal equality between two characters.
func CharEqual(a, b *value.Value) (bool, error) {
	if !value.IsChar(a) || !value.IsChar(b) {
		return false, kerror.New(kerror.KindType, "char=?: not a character")
	}
	return a.Ch == b.Ch, nil
}

// CharLess reports ordinal ordering between two characters. This is
// byte ordering, not locale collation — the latter is out of scope.
func CharLess(a, b *value.Value) (bool, error) {
	if !value.IsChar(a) || !value.IsChar(b) {
		return false, kerror.New(kerror.KindType, "char<?: not a character")
	}
	return a.Ch < b.Ch, nil
}
