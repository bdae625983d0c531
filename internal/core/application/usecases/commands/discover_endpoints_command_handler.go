package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DiscoverEndpointsCommandHandler registers newly reachable devices found by
// a network sweep. Known addresses are left untouched; new ones are
// registered disabled, with a generated name and the default capability,
// which the operator confirms and refines later.
type DiscoverEndpointsCommandHandler struct {
	uowFactory EndpointUoWFactory
	scanner    ports.NetworkScanner
}

// NewDiscoverEndpointsCommandHandler creates a handler for discovery sweeps.
func NewDiscoverEndpointsCommandHandler(
	uowFactory EndpointUoWFactory,
	scanner ports.NetworkScanner,
) (DiscoverEndpointsCommandHandler, error) {
	if scanner == nil {
		return DiscoverEndpointsCommandHandler{}, errs.NewValueIsRequiredError("scanner")
	}

	return DiscoverEndpointsCommandHandler{
		uowFactory: uowFactory,
		scanner:    scanner,
	}, nil
}

// Handle runs one discovery sweep. The network scan happens before the
// transaction opens since it can take several seconds.
func (h *DiscoverEndpointsCommandHandler) Handle(ctx context.Context, cmd DiscoverEndpointsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	addresses, err := h.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	for _, address := range addresses {
		_, getErr := uow.EndpointRepository().GetByAddress(ctx, address)
		if getErr == nil {
			continue
		}
		if !errors.Is(getErr, errs.ErrObjectNotFound) {
			return getErr
		}

		aggregate, newErr := endpoint.NewEndpoint(
			kernel.NewUUID(),
			fmt.Sprintf("Printer %s", address.Host()),
			address,
			endpoint.DefaultCapability(),
		)
		if newErr != nil {
			return newErr
		}

		// Discovered devices stay out of routing until an operator
		// confirms and enables them.
		aggregate.Disable()

		if err = uow.EndpointRepository().Add(ctx, aggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
