package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Scope says what a rule's target identifier refers to.
//
// Item-scoped rules always override category-scoped rules for the same line
// item: exact match wins. The zero value (0) is invalid.
type Scope int

const (
	// ScopeItem targets a specific menu item.
	ScopeItem Scope = iota + 1

	// ScopeCategory targets every menu item in a category.
	ScopeCategory
)

func getScopeStrings() map[Scope]string {
	return map[Scope]string{
		ScopeItem:     "Item",
		ScopeCategory: "Category",
	}
}

// Validate checks that the Scope is one of the defined values.
func (s Scope) Validate() error {
	if _, ok := getScopeStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("scope is invalid",
			fmt.Errorf("%d is not a valid scope", s))
	}
	return nil
}

// String returns the human-readable scope name. Implements fmt.Stringer.
func (s Scope) String() string {
	if str, ok := getScopeStrings()[s]; ok {
		return str
	}
	return "Invalid"
}
