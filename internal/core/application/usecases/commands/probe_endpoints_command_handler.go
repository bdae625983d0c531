package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultProbeTimeout bounds one reachability probe. A healthy device on a
// local network accepts within this budget; anything slower counts as a miss.
const DefaultProbeTimeout = 300 * time.Millisecond

// ProbeEndpointsCommandHandler probes every enabled endpoint with a
// lightweight connect-and-close and records the outcome on the aggregate.
// Online endpoints tolerate misses below the consecutive-failure threshold;
// offline endpoints are re-probed every sweep so recovery is automatic.
type ProbeEndpointsCommandHandler struct {
	uowFactory EndpointUoWFactory
	transport  ports.Transport
}

// NewProbeEndpointsCommandHandler creates a handler for probe sweeps.
func NewProbeEndpointsCommandHandler(
	uowFactory EndpointUoWFactory,
	transport ports.Transport,
) (ProbeEndpointsCommandHandler, error) {
	if transport == nil {
		return ProbeEndpointsCommandHandler{}, errs.NewValueIsRequiredError("transport")
	}

	return ProbeEndpointsCommandHandler{
		uowFactory: uowFactory,
		transport:  transport,
	}, nil
}

// Handle runs one probe sweep. A probe failure on one endpoint never aborts
// the sweep for the others. The network probes run before the transaction
// opens, as in the discovery sweep, so slow devices never hold database locks.
func (h *ProbeEndpointsCommandHandler) Handle(ctx context.Context, cmd ProbeEndpointsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	endpoints, err := uow.EndpointRepository().GetAllEnabled(ctx)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 {
		return nil
	}

	for _, ep := range endpoints {
		if err = h.probe(ctx, ep); err != nil {
			return err
		}
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	for _, ep := range endpoints {
		if err = uow.EndpointRepository().Update(ctx, ep); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func (h *ProbeEndpointsCommandHandler) probe(ctx context.Context, ep *endpoint.Endpoint) error {
	if err := ep.BeginProbe(); err != nil {
		return err
	}

	conn, err := h.transport.Connect(ctx, ep.Address(), DefaultProbeTimeout)
	if err != nil {
		return ep.RecordProbeFailure(endpoint.DefaultOfflineThreshold)
	}
	_ = conn.Close()

	return ep.RecordProbeSuccess(time.Now())
}
