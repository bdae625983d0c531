// Package guard provides a lightweight mechanism for enforcing constructor usage
// on value objects. A zero-value struct embedding ConstructorGuard fails
// validation, so callers cannot bypass constructor invariants by instantiating
// structs directly.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own not-constructed error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as having passed through a constructor.
// The zero value is "not constructed"; NewConstructorGuard returns a
// constructed guard. Embed one as a private field and call Validate from
// the owner's Validate method.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns notConstructed, or ErrDefaultConstructorGuard when notConstructed is nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed != nil {
		return notConstructed
	}
	return ErrDefaultConstructorGuard
}
