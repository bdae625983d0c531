package dispatch

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Outcome represents the delivery state of one ticket.
//
// State transitions:
//
//	Pending ──> Attempting ──> (Delivered | Failed)
//	Pending ──> SkippedOffline   (fast-fail, no connection attempted)
//
// Delivered, Failed, and SkippedOffline are terminal; there is no transition
// back to Pending. The zero value (0) is invalid.
type Outcome int

const (
	// OutcomePending means the ticket has not been handed to the transport yet.
	OutcomePending Outcome = iota + 1

	// OutcomeAttempting means a delivery attempt is in progress.
	OutcomeAttempting

	// OutcomeDelivered means the transport acknowledged the ticket.
	OutcomeDelivered

	// OutcomeFailed means every allowed attempt failed.
	OutcomeFailed

	// OutcomeSkippedOffline means delivery was not attempted because the
	// endpoint was known offline outside the grace window.
	OutcomeSkippedOffline
)

func getOutcomeStrings() map[Outcome]string {
	return map[Outcome]string{
		OutcomePending:        "Pending",
		OutcomeAttempting:     "Attempting",
		OutcomeDelivered:      "Delivered",
		OutcomeFailed:         "Failed",
		OutcomeSkippedOffline: "SkippedOffline",
	}
}

// Validate checks that the Outcome is one of the defined values.
func (o Outcome) Validate() error {
	if _, ok := getOutcomeStrings()[o]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
			fmt.Errorf("%d is not a valid outcome", o))
	}
	return nil
}

// String returns the human-readable outcome name. Implements fmt.Stringer.
func (o Outcome) String() string {
	if str, ok := getOutcomeStrings()[o]; ok {
		return str
	}
	return "Invalid"
}

// IsTerminal reports whether the outcome admits no further transitions.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeDelivered || o == OutcomeFailed || o == OutcomeSkippedOffline
}

// Begin transitions Pending to Attempting.
func (o Outcome) Begin() (Outcome, error) {
	if o != OutcomePending {
		return 0, errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
			fmt.Errorf("%s is not a valid outcome to begin attempting", o))
	}
	return OutcomeAttempting, nil
}

// Deliver transitions Attempting to Delivered.
func (o Outcome) Deliver() (Outcome, error) {
	if o != OutcomeAttempting {
		return 0, errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
			fmt.Errorf("%s is not a valid outcome to deliver from", o))
	}
	return OutcomeDelivered, nil
}

// Fail transitions Attempting to Failed.
func (o Outcome) Fail() (Outcome, error) {
	if o != OutcomeAttempting {
		return 0, errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
			fmt.Errorf("%s is not a valid outcome to fail from", o))
	}
	return OutcomeFailed, nil
}

// Skip transitions Pending to SkippedOffline without an attempt.
func (o Outcome) Skip() (Outcome, error) {
	if o != OutcomePending {
		return 0, errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
			fmt.Errorf("%s is not a valid outcome to skip from", o))
	}
	return OutcomeSkippedOffline, nil
}
