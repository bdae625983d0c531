package endpoint_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint(t *testing.T, name string) *endpoint.Endpoint {
	t.Helper()
	addr, err := kernel.NewNetworkAddress("192.168.1.40", kernel.DefaultRawPrintPort)
	require.NoError(t, err)
	e, err := endpoint.NewEndpoint(kernel.NewUUID(), name, addr, endpoint.DefaultCapability())
	require.NoError(t, err)
	return e
}

func TestNewEndpoint(t *testing.T) {
	t.Run("creates endpoint in unknown health", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")

		require.NoError(t, e.Validate())
		assert.Equal(t, "Kitchen", e.Name())
		assert.Equal(t, endpoint.HealthUnknown, e.Health())
		assert.True(t, e.IsEnabled())
		assert.Zero(t, e.ConsecutiveFailures())
		assert.Nil(t, e.LastSeenAt())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		addr, _ := kernel.NewNetworkAddress("192.168.1.40", 9100)
		_, err := endpoint.NewEndpoint(kernel.NewUUID(), "", addr, endpoint.DefaultCapability())
		require.Error(t, err)
	})

	t.Run("rejects zero value address and capability", func(t *testing.T) {
		_, err := endpoint.NewEndpoint(kernel.NewUUID(), "Bar", kernel.NetworkAddress{}, endpoint.Capability{})
		require.Error(t, err)
	})

	t.Run("zero value endpoint fails validation", func(t *testing.T) {
		var e *endpoint.Endpoint
		require.ErrorIs(t, e.Validate(), endpoint.ErrEndpointIsNotConstructed)

		require.ErrorIs(t, (&endpoint.Endpoint{}).Validate(), endpoint.ErrEndpointIsNotConstructed)
	})
}

func TestRestoreEndpoint(t *testing.T) {
	addr, _ := kernel.NewNetworkAddress("10.0.0.7", 9100)
	seen := time.Now().Add(-time.Minute)

	t.Run("restores health bookkeeping", func(t *testing.T) {
		e, err := endpoint.RestoreEndpoint(kernel.NewUUID(), "Bar", addr,
			endpoint.DefaultCapability(), endpoint.HealthOffline, 4, &seen, false)

		require.NoError(t, err)
		assert.Equal(t, endpoint.HealthOffline, e.Health())
		assert.Equal(t, 4, e.ConsecutiveFailures())
		assert.Equal(t, seen, *e.LastSeenAt())
		assert.False(t, e.IsEnabled())
	})

	t.Run("rejects invalid health", func(t *testing.T) {
		_, err := endpoint.RestoreEndpoint(kernel.NewUUID(), "Bar", addr,
			endpoint.DefaultCapability(), endpoint.Health(0), 0, nil, true)
		require.Error(t, err)
	})

	t.Run("rejects negative failure count", func(t *testing.T) {
		_, err := endpoint.RestoreEndpoint(kernel.NewUUID(), "Bar", addr,
			endpoint.DefaultCapability(), endpoint.HealthOnline, -1, nil, true)
		require.Error(t, err)
	})
}

func TestEndpoint_ProbeLifecycle(t *testing.T) {
	t.Run("success marks online and stamps last seen", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		now := time.Now()

		require.NoError(t, e.BeginProbe())
		assert.Equal(t, endpoint.HealthProbing, e.Health())

		require.NoError(t, e.RecordProbeSuccess(now))
		assert.Equal(t, endpoint.HealthOnline, e.Health())
		assert.Equal(t, now, *e.LastSeenAt())
		assert.Zero(t, e.ConsecutiveFailures())
	})

	t.Run("online endpoint tolerates failures below threshold", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(time.Now()))

		require.NoError(t, e.RecordProbeFailure(3))
		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOnline, e.Health())

		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOffline, e.Health())
		assert.Equal(t, 3, e.ConsecutiveFailures())
	})

	t.Run("probing does not defeat the online blip tolerance", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeSuccess(time.Now()))

		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOnline, e.Health())
		assert.Equal(t, 1, e.ConsecutiveFailures())

		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOnline, e.Health())

		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOffline, e.Health())
		assert.Equal(t, 3, e.ConsecutiveFailures())
	})

	t.Run("restored online endpoint keeps the blip tolerance", func(t *testing.T) {
		addr, _ := kernel.NewNetworkAddress("10.0.0.7", 9100)
		seen := time.Now().Add(-time.Minute)
		e, err := endpoint.RestoreEndpoint(kernel.NewUUID(), "Bar", addr,
			endpoint.DefaultCapability(), endpoint.HealthOnline, 0, &seen, true)
		require.NoError(t, err)

		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOnline, e.Health())
	})

	t.Run("non-online endpoint goes offline on first failure", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")

		require.NoError(t, e.RecordProbeFailure(3))
		assert.Equal(t, endpoint.HealthOffline, e.Health())
	})

	t.Run("success after offline recovers and resets the run", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeFailure(3))
		require.Equal(t, endpoint.HealthOffline, e.Health())

		require.NoError(t, e.BeginProbe())
		require.NoError(t, e.RecordProbeSuccess(time.Now()))
		assert.Equal(t, endpoint.HealthOnline, e.Health())
		assert.Zero(t, e.ConsecutiveFailures())
	})

	t.Run("rejects non-positive threshold", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.Error(t, e.RecordProbeFailure(0))
	})
}

func TestEndpoint_MarkUnreachable(t *testing.T) {
	e := newTestEndpoint(t, "Kitchen")
	require.NoError(t, e.RecordProbeSuccess(time.Now()))

	require.NoError(t, e.MarkUnreachable())
	assert.Equal(t, endpoint.HealthOffline, e.Health())
}

func TestEndpoint_ShouldFastFail(t *testing.T) {
	now := time.Now()
	grace := 30 * time.Second

	t.Run("online endpoint never fast-fails", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(now))
		assert.False(t, e.ShouldFastFail(now, grace))
	})

	t.Run("offline never-seen endpoint fast-fails", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.MarkUnreachable())
		assert.True(t, e.ShouldFastFail(now, grace))
	})

	t.Run("offline but recently seen endpoint gets a real attempt", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(now.Add(-10*time.Second)))
		require.NoError(t, e.MarkUnreachable())
		assert.False(t, e.ShouldFastFail(now, grace))
	})

	t.Run("offline and stale endpoint fast-fails", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(now.Add(-5*time.Minute)))
		require.NoError(t, e.MarkUnreachable())
		assert.True(t, e.ShouldFastFail(now, grace))
	})
}

func TestEndpoint_ConfigurationEdits(t *testing.T) {
	t.Run("relocate resets health history", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(time.Now()))

		newAddr, _ := kernel.NewNetworkAddress("10.0.0.99", 9100)
		require.NoError(t, e.Relocate(newAddr))

		assert.Equal(t, newAddr, e.Address())
		assert.Equal(t, endpoint.HealthUnknown, e.Health())
		assert.Nil(t, e.LastSeenAt())
	})

	t.Run("disable and enable", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.NoError(t, e.RecordProbeSuccess(time.Now()))

		e.Disable()
		assert.False(t, e.IsEnabled())

		e.Enable()
		assert.True(t, e.IsEnabled())
		assert.Equal(t, endpoint.HealthUnknown, e.Health())
	})

	t.Run("rename rejects empty name", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		require.Error(t, e.Rename(""))
		require.NoError(t, e.Rename("Pass"))
		assert.Equal(t, "Pass", e.Name())
	})

	t.Run("reconfigure changes capability", func(t *testing.T) {
		e := newTestEndpoint(t, "Kitchen")
		narrow, err := endpoint.NewCapability(32, false)
		require.NoError(t, err)

		require.NoError(t, e.Reconfigure(narrow))
		assert.Equal(t, 32, e.Capability().LineWidth())
		assert.False(t, e.Capability().SupportsCut())
	})
}

func TestNewCapability(t *testing.T) {
	t.Run("rejects out of range width", func(t *testing.T) {
		_, err := endpoint.NewCapability(10, true)
		require.Error(t, err)
		_, err = endpoint.NewCapability(200, true)
		require.Error(t, err)
	})

	t.Run("default is 48 columns with cut", func(t *testing.T) {
		c := endpoint.DefaultCapability()
		require.NoError(t, c.Validate())
		assert.Equal(t, 48, c.LineWidth())
		assert.True(t, c.SupportsCut())
	})
}
