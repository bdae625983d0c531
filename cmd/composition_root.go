package cmd

import (
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/raster"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	transport   *raster.TCPTransport
	scanner     *raster.SubnetScanner
	coordinator *services.DispatchCoordinator
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) (CompositionRoot, error) {
	transport := raster.NewTCPTransport()

	coordinator, err := services.NewDispatchCoordinator(transport, services.CoordinatorConfig{})
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		transport:   transport,
		scanner:     raster.NewSubnetScanner(kernel.DefaultRawPrintPort),
		coordinator: coordinator,
	}, nil
}

func (c *CompositionRoot) CreateRegisterEndpointCommandHandler() commands.RegisterEndpointCommandHandler {
	var f commands.EndpointUoWFactory = FuncEndpointUoWFactory(func() commands.EndpointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterEndpointCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateEndpointCommandHandler() commands.UpdateEndpointCommandHandler {
	var f commands.EndpointUoWFactory = FuncEndpointUoWFactory(func() commands.EndpointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateEndpointCommandHandler(f)
}

func (c *CompositionRoot) CreateRemoveEndpointCommandHandler() commands.RemoveEndpointCommandHandler {
	return commands.NewRemoveEndpointCommandHandler(c.configUoWFactory())
}

func (c *CompositionRoot) CreateSetAssignmentRuleCommandHandler() commands.SetAssignmentRuleCommandHandler {
	return commands.NewSetAssignmentRuleCommandHandler(c.configUoWFactory())
}

func (c *CompositionRoot) CreateRemoveAssignmentRuleCommandHandler() commands.RemoveAssignmentRuleCommandHandler {
	return commands.NewRemoveAssignmentRuleCommandHandler(c.configUoWFactory())
}

func (c *CompositionRoot) CreateSetDefaultEndpointCommandHandler() commands.SetDefaultEndpointCommandHandler {
	return commands.NewSetDefaultEndpointCommandHandler(c.configUoWFactory())
}

func (c *CompositionRoot) CreateClearDefaultEndpointCommandHandler() commands.ClearDefaultEndpointCommandHandler {
	return commands.NewClearDefaultEndpointCommandHandler(c.configUoWFactory())
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(
		f,
		services.NewOrderRouter(),
		services.NewTicketComposer(),
		c.coordinator,
	)
}

func (c *CompositionRoot) CreateProbeEndpointsCommandHandler() (commands.ProbeEndpointsCommandHandler, error) {
	var f commands.EndpointUoWFactory = FuncEndpointUoWFactory(func() commands.EndpointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProbeEndpointsCommandHandler(f, c.transport)
}

func (c *CompositionRoot) CreateDiscoverEndpointsCommandHandler() (commands.DiscoverEndpointsCommandHandler, error) {
	var f commands.EndpointUoWFactory = FuncEndpointUoWFactory(func() commands.EndpointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDiscoverEndpointsCommandHandler(f, c.scanner)
}

func (c *CompositionRoot) CreateGetEndpointsQueryHandler() queries.GetEndpointsQueryHandler {
	return queries.NewGetEndpointsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAssignmentRulesQueryHandler() queries.GetAssignmentRulesQueryHandler {
	return queries.NewGetAssignmentRulesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDispatchResultsQueryHandler() queries.GetDispatchResultsQueryHandler {
	return queries.NewGetDispatchResultsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) configUoWFactory() commands.ConfigUoWFactory {
	return FuncConfigUoWFactory(func() commands.ConfigUoW {
		return c.uowFactory.Create()
	})
}

type FuncEndpointUoWFactory func() commands.EndpointUoW

func (f FuncEndpointUoWFactory) Create() commands.EndpointUoW {
	return f()
}

type FuncConfigUoWFactory func() commands.ConfigUoW

func (f FuncConfigUoWFactory) Create() commands.ConfigUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}
