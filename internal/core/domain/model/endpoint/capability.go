package endpoint

import (
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// CapabilityMinLineWidth is the narrowest supported ticket width in characters.
	CapabilityMinLineWidth = 20
	// CapabilityMaxLineWidth is the widest supported ticket width in characters.
	CapabilityMaxLineWidth = 96
	// CapabilityDefaultLineWidth matches common 80mm thermal printers.
	CapabilityDefaultLineWidth = 48
)

// ErrCapabilityIsNotConstructed is returned when attempting to use an
// improperly initialized Capability.
var ErrCapabilityIsNotConstructed = errs.NewValueIsRequiredError(
	"capability must be created via NewCapability or DefaultCapability")

// Capability is an immutable value object describing what an endpoint's device
// can render: the usable line width in characters and whether it honors a
// paper-cut instruction. The ticket composer degrades gracefully to the
// declared width rather than failing.
type Capability struct { //nolint:recvcheck //using for validation
	lineWidth   int
	supportsCut bool

	guard guard.ConstructorGuard
}

// NewCapability creates a validated Capability. The line width must be within
// [CapabilityMinLineWidth..CapabilityMaxLineWidth].
func NewCapability(lineWidth int, supportsCut bool) (Capability, error) {
	c := Capability{
		guard: guard.NewConstructorGuard(),
	}

	if err := c.setLineWidth(lineWidth); err != nil {
		return Capability{}, err
	}
	c.supportsCut = supportsCut

	return c, nil
}

// DefaultCapability returns the capability of a typical 80mm thermal printer:
// 48 characters per line with paper-cut support.
func DefaultCapability() Capability {
	c, _ := NewCapability(CapabilityDefaultLineWidth, true)
	return c
}

// Validate checks that the capability was built through a constructor.
func (c Capability) Validate() error {
	return c.guard.Validate(ErrCapabilityIsNotConstructed)
}

// LineWidth returns the usable line width in characters.
func (c Capability) LineWidth() int {
	return c.lineWidth
}

// SupportsCut reports whether the device honors a paper-cut instruction.
func (c Capability) SupportsCut() bool {
	return c.supportsCut
}

func (c *Capability) setLineWidth(lineWidth int) error {
	if lineWidth < CapabilityMinLineWidth || lineWidth > CapabilityMaxLineWidth {
		return errs.NewValueIsOutOfRangeError("lineWidth", lineWidth,
			CapabilityMinLineWidth, CapabilityMaxLineWidth)
	}

	c.lineWidth = lineWidth
	return nil
}
