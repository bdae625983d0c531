package dispatch

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrResultIsNotConstructed is returned when a Result was not created via
// NewResult or RestoreResult.
var ErrResultIsNotConstructed = errors.New("Result must be created via NewResult or RestoreResult")

// Result records the terminal fate of one ticket at one endpoint. It is
// created Pending when the coordinator accepts the ticket and driven through
// the Outcome state machine; once terminal it never changes again. The caller
// surfaces results so an operator can selectively retry only failed
// destinations.
type Result struct {
	ticketID   kernel.UUID
	endpointID kernel.UUID
	outcome    Outcome
	attempts   int
	lastError  string
	finishedAt *time.Time

	isConstructed bool
}

// NewResult creates a pending result for a ticket.
func NewResult(ticketID kernel.UUID, endpointID kernel.UUID) (*Result, error) {
	r := &Result{
		outcome:       OutcomePending,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setTicketID(ticketID),
		r.setEndpointID(endpointID),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreResult rehydrates a result from persistence.
func RestoreResult(
	ticketID kernel.UUID,
	endpointID kernel.UUID,
	outcome Outcome,
	attempts int,
	lastError string,
	finishedAt *time.Time,
) (*Result, error) {
	r, err := NewResult(ticketID, endpointID)
	if err != nil {
		return nil, err
	}

	if err = outcome.Validate(); err != nil {
		return nil, err
	}
	if attempts < 0 {
		return nil, errs.NewValueIsInvalidError("attempts")
	}

	r.outcome = outcome
	r.attempts = attempts
	r.lastError = lastError
	r.finishedAt = finishedAt
	return r, nil
}

// Validate ensures the result was created through a constructor.
func (r *Result) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrResultIsNotConstructed
	}
	return nil
}

// TicketID returns the ticket this result belongs to.
func (r *Result) TicketID() kernel.UUID {
	return r.ticketID
}

// EndpointID returns the destination endpoint.
func (r *Result) EndpointID() kernel.UUID {
	return r.endpointID
}

// Outcome returns the current delivery state.
func (r *Result) Outcome() Outcome {
	return r.outcome
}

// Attempts returns how many delivery attempts were made.
func (r *Result) Attempts() int {
	return r.attempts
}

// LastError returns the last transport error text, or "" on success.
// Retained for operator visibility after retry exhaustion.
func (r *Result) LastError() string {
	return r.lastError
}

// FinishedAt returns when the result became terminal, or nil while in flight.
func (r *Result) FinishedAt() *time.Time {
	return r.finishedAt
}

// Begin marks the first delivery attempt as started.
func (r *Result) Begin() error {
	o, err := r.outcome.Begin()
	if err != nil {
		return err
	}

	r.outcome = o
	return nil
}

// MarkDelivered finalizes the result as Delivered.
func (r *Result) MarkDelivered(attempts int, at time.Time) error {
	o, err := r.outcome.Deliver()
	if err != nil {
		return err
	}
	if err = r.setAttempts(attempts); err != nil {
		return err
	}

	r.outcome = o
	r.finishedAt = &at
	return nil
}

// MarkFailed finalizes the result as Failed, retaining the last error text.
func (r *Result) MarkFailed(attempts int, lastError string, at time.Time) error {
	o, err := r.outcome.Fail()
	if err != nil {
		return err
	}
	if err = r.setAttempts(attempts); err != nil {
		return err
	}
	if lastError == "" {
		return errs.NewValueIsRequiredError("lastError")
	}

	r.outcome = o
	r.lastError = lastError
	r.finishedAt = &at
	return nil
}

// MarkSkippedOffline finalizes the result as SkippedOffline with no attempts.
func (r *Result) MarkSkippedOffline(at time.Time) error {
	o, err := r.outcome.Skip()
	if err != nil {
		return err
	}

	r.outcome = o
	r.finishedAt = &at
	return nil
}

func (r *Result) setTicketID(ticketID kernel.UUID) error {
	if err := ticketID.Validate(); err != nil {
		return err
	}
	r.ticketID = ticketID
	return nil
}

func (r *Result) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}
	r.endpointID = endpointID
	return nil
}

func (r *Result) setAttempts(attempts int) error {
	if attempts < 1 {
		return errs.NewValueIsInvalidError("attempts")
	}
	r.attempts = attempts
	return nil
}
