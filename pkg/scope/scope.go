// Package scope defines the closed permission set used by access tokens and
// the bitmask encoding used to check them.
package scope

import "fmt"

// Scope is a named permission. The set is closed and versionless: adding a
// scope appends a new enumerator at the end. Bit positions are baked into
// every issued token, so renumbering is a breaking change and must never
// happen.
type Scope uint8

const (
	ProfileRead Scope = iota
	ProfileWrite

	numScopes // sentinel, keep last
)

var names = [numScopes]string{
	ProfileRead:  "profile.read",
	ProfileWrite: "profile.write",
}

// Mask is a bitwise union of scope bits.
type Mask uint16

// None is the empty mask. A route registered with None performs
// authentication only, no scope check.
const None Mask = 0

// Valid reports whether s is a member of the closed set.
func (s Scope) Valid() bool { return s < numScopes }

// String returns the wire name of the scope, e.g. "profile.read".
func (s Scope) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return names[s]
}

// Bit returns the single-bit mask for s.
func (s Scope) Bit() Mask { return 1 << s }

// Parse maps a wire name back to its Scope. The second return is false for
// names outside the closed set; callers decide whether that is an error or a
// silent drop.
func Parse(name string) (Scope, bool) {
	for s, n := range names {
		if n == name {
			return Scope(s), true
		}
	}
	return 0, false
}

// MarshalText serializes the scope by name so JSON carries "profile.read"
// rather than a bare enumerator.
func (s Scope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("scope: cannot marshal unknown scope %d", s)
	}
	return []byte(names[s]), nil
}

// UnmarshalText parses a scope name. Unknown names are an error; callers
// that want silent dropping should use Parse directly.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("scope: unknown scope %q", text)
	}
	*s = parsed
	return nil
}

// Encode folds the given scopes into a mask. Duplicates collapse.
func Encode(scopes ...Scope) Mask {
	var m Mask
	for _, s := range scopes {
		if s.Valid() {
			m |= s.Bit()
		}
	}
	return m
}

// Satisfies reports whether the granted mask m covers every bit of required.
// Containment, not equality: extra grants are fine.
func (m Mask) Satisfies(required Mask) bool {
	return m&required == required
}

// Scopes expands the mask back into its member scopes in enumerator order.
func (m Mask) Scopes() []Scope {
	var out []Scope
	for s := Scope(0); s < numScopes; s++ {
		if m&s.Bit() != 0 {
			out = append(out, s)
		}
	}
	return out
}
