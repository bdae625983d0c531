// Package http exposes the dispatch engine over a REST API.
// It coordinates between HTTP handlers and application use cases.
package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles HTTP requests for endpoint management, assignment
// configuration, and order dispatch.
type Server struct {
	// Command handlers
	registerEndpointHandler commands.RegisterEndpointCommandHandler
	updateEndpointHandler   commands.UpdateEndpointCommandHandler
	removeEndpointHandler   commands.RemoveEndpointCommandHandler
	setRuleHandler          commands.SetAssignmentRuleCommandHandler
	removeRuleHandler       commands.RemoveAssignmentRuleCommandHandler
	setDefaultHandler       commands.SetDefaultEndpointCommandHandler
	clearDefaultHandler     commands.ClearDefaultEndpointCommandHandler
	dispatchOrderHandler    commands.DispatchOrderCommandHandler
	discoverHandler         commands.DiscoverEndpointsCommandHandler

	// Query handlers
	getEndpointsHandler queries.GetEndpointsQueryHandler
	getRulesHandler     queries.GetAssignmentRulesQueryHandler
	getResultsHandler   queries.GetDispatchResultsQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	registerEndpointHandler commands.RegisterEndpointCommandHandler,
	updateEndpointHandler commands.UpdateEndpointCommandHandler,
	removeEndpointHandler commands.RemoveEndpointCommandHandler,
	setRuleHandler commands.SetAssignmentRuleCommandHandler,
	removeRuleHandler commands.RemoveAssignmentRuleCommandHandler,
	setDefaultHandler commands.SetDefaultEndpointCommandHandler,
	clearDefaultHandler commands.ClearDefaultEndpointCommandHandler,
	dispatchOrderHandler commands.DispatchOrderCommandHandler,
	discoverHandler commands.DiscoverEndpointsCommandHandler,
	getEndpointsHandler queries.GetEndpointsQueryHandler,
	getRulesHandler queries.GetAssignmentRulesQueryHandler,
	getResultsHandler queries.GetDispatchResultsQueryHandler,
) *Server {
	return &Server{
		registerEndpointHandler: registerEndpointHandler,
		updateEndpointHandler:   updateEndpointHandler,
		removeEndpointHandler:   removeEndpointHandler,
		setRuleHandler:          setRuleHandler,
		removeRuleHandler:       removeRuleHandler,
		setDefaultHandler:       setDefaultHandler,
		clearDefaultHandler:     clearDefaultHandler,
		dispatchOrderHandler:    dispatchOrderHandler,
		discoverHandler:         discoverHandler,
		getEndpointsHandler:     getEndpointsHandler,
		getRulesHandler:         getRulesHandler,
		getResultsHandler:       getResultsHandler,
	}
}

// RegisterRoutes binds all API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.GetHealth)

	v1 := e.Group("/api/v1")
	v1.GET("/endpoints", s.GetEndpoints)
	v1.POST("/endpoints", s.RegisterEndpoint)
	v1.PUT("/endpoints/:id", s.UpdateEndpoint)
	v1.DELETE("/endpoints/:id", s.RemoveEndpoint)
	v1.POST("/endpoints/discover", s.DiscoverEndpoints)

	v1.GET("/rules", s.GetRules)
	v1.POST("/rules", s.SetRule)
	v1.DELETE("/rules", s.RemoveRule)
	v1.PUT("/rules/default", s.SetDefaultEndpoint)
	v1.DELETE("/rules/default", s.ClearDefaultEndpoint)

	v1.POST("/orders/:id/dispatch", s.DispatchOrder)
	v1.GET("/orders/:id/results", s.GetOrderResults)
}

// GetHealth handles GET /health - liveness check.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// GetEndpoints handles GET /api/v1/endpoints - retrieves all registered devices.
func (s *Server) GetEndpoints(ctx echo.Context) error {
	query := queries.NewGetEndpointsQuery()

	endpoints, err := s.getEndpointsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve endpoints",
		})
	}

	response := make([]Endpoint, len(endpoints))
	for i, ep := range endpoints {
		response[i] = Endpoint{
			ID:                  ep.ID.String(),
			Name:                ep.Name,
			Host:                ep.Host,
			Port:                ep.Port,
			LineWidth:           ep.LineWidth,
			SupportsCut:         ep.SupportsCut,
			Health:              ep.Health.String(),
			ConsecutiveFailures: ep.ConsecutiveFailures,
			LastSeenAt:          ep.LastSeenAt,
			Enabled:             ep.Enabled,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterEndpoint handles POST /api/v1/endpoints - registers a new device.
func (s *Server) RegisterEndpoint(ctx echo.Context) error {
	var body NewEndpoint
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRegisterEndpointCommand(
		kernel.NewUUID(), body.Name, body.Host, body.Port, body.LineWidth, body.SupportsCut)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid endpoint data: " + err.Error(),
		})
	}

	if handleErr := s.registerEndpointHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Failed to register endpoint: " + handleErr.Error(),
		})
	}

	return ctx.NoContent(http.StatusCreated)
}

// UpdateEndpoint handles PUT /api/v1/endpoints/:id - edits a device's
// configuration, including enabling a discovered device.
func (s *Server) UpdateEndpoint(ctx echo.Context) error {
	endpointID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid endpoint id",
		})
	}

	var body UpdateEndpoint
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateEndpointCommand(
		endpointID, body.Name, body.Host, body.Port, body.LineWidth, body.SupportsCut, body.Enabled)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid endpoint data: " + err.Error(),
		})
	}

	if handleErr := s.updateEndpointHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Endpoint not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update endpoint",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RemoveEndpoint handles DELETE /api/v1/endpoints/:id - removes a device.
// The cascade query flag also removes the rules and default referencing it.
func (s *Server) RemoveEndpoint(ctx echo.Context) error {
	endpointID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid endpoint id",
		})
	}

	cascade := ctx.QueryParam("cascade") == "true"

	cmd, err := commands.NewRemoveEndpointCommand(endpointID, cascade)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if handleErr := s.removeEndpointHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		switch {
		case errors.Is(handleErr, errs.ErrObjectNotFound):
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Endpoint not found",
			})
		case errors.Is(handleErr, commands.ErrReferentialConflict):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Endpoint is referenced by rules or the default; use cascade or disable it",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to remove endpoint",
			})
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DiscoverEndpoints handles POST /api/v1/endpoints/discover - sweeps the local
// subnet and registers any unknown devices found.
func (s *Server) DiscoverEndpoints(ctx echo.Context) error {
	cmd := commands.NewDiscoverEndpointsCommand()

	if err := s.discoverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Discovery failed: " + err.Error(),
		})
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetRules handles GET /api/v1/rules - retrieves the assignment configuration.
func (s *Server) GetRules(ctx echo.Context) error {
	query := queries.NewGetAssignmentRulesQuery()

	config, err := s.getRulesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve rules",
		})
	}

	response := RuleSet{Rules: make([]Rule, len(config.Rules))}
	for i, rule := range config.Rules {
		response.Rules[i] = Rule{
			ID:         rule.ID.String(),
			Scope:      strings.ToLower(rule.Scope.String()),
			TargetID:   rule.TargetID,
			EndpointID: rule.EndpointID.String(),
			CreatedAt:  rule.CreatedAt,
		}
	}
	if config.DefaultEndpointID != nil {
		id := config.DefaultEndpointID.String()
		response.DefaultEndpointID = &id
	}

	return ctx.JSON(http.StatusOK, response)
}

// SetRule handles POST /api/v1/rules - sets an assignment rule. Setting a rule
// that already exists is idempotent.
func (s *Server) SetRule(ctx echo.Context) error {
	var body NewRule
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	scope, endpointID, err := parseRuleTarget(body.Scope, body.EndpointID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	cmd, err := commands.NewSetAssignmentRuleCommand(kernel.NewUUID(), scope, body.TargetID, endpointID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid rule data: " + err.Error(),
		})
	}

	if handleErr := s.setRuleHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Endpoint not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to set rule",
		})
	}

	return ctx.NoContent(http.StatusCreated)
}

// RemoveRule handles DELETE /api/v1/rules - removes the rule identified by the
// scope, targetId, and endpointId query parameters.
func (s *Server) RemoveRule(ctx echo.Context) error {
	scope, endpointID, err := parseRuleTarget(ctx.QueryParam("scope"), ctx.QueryParam("endpointId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	cmd, err := commands.NewRemoveAssignmentRuleCommand(scope, ctx.QueryParam("targetId"), endpointID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if handleErr := s.removeRuleHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to remove rule",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetDefaultEndpoint handles PUT /api/v1/rules/default - sets the fallback endpoint.
func (s *Server) SetDefaultEndpoint(ctx echo.Context) error {
	var body DefaultEndpoint
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	endpointID, err := kernel.UUIDFromString(body.EndpointID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid endpoint id",
		})
	}

	cmd, err := commands.NewSetDefaultEndpointCommand(endpointID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if handleErr := s.setDefaultHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Endpoint not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to set default endpoint",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ClearDefaultEndpoint handles DELETE /api/v1/rules/default.
func (s *Server) ClearDefaultEndpoint(ctx echo.Context) error {
	cmd := commands.NewClearDefaultEndpointCommand()

	if err := s.clearDefaultHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to clear default endpoint",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DispatchOrder handles POST /api/v1/orders/:id/dispatch - routes the order
// snapshot and delivers one ticket per destination. Partial delivery failure
// is reported inside the response, not as an HTTP error.
func (s *Server) DispatchOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var body DispatchOrder
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]order.LineItem, 0, len(body.Items))
	for _, item := range body.Items {
		lineItem, itemErr := order.NewLineItem(
			item.ID, item.MenuItemID, item.CategoryID, item.Quantity,
			item.Name, item.Modifiers, item.Notes)
		if itemErr != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid line item: " + itemErr.Error(),
			})
		}
		items = append(items, lineItem)
	}

	cmd, err := commands.NewDispatchOrderCommand(orderID, body.Origin, body.PlacedAt, items, body.Resend)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid dispatch data: " + err.Error(),
		})
	}

	report, err := s.dispatchOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderAlreadyDispatched),
			errors.Is(err, services.ErrConcurrentDispatchRejected):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Dispatch failed: " + err.Error(),
			})
		}
	}

	return ctx.JSON(http.StatusOK, toDispatchReport(report))
}

// GetOrderResults handles GET /api/v1/orders/:id/results - retrieves every
// recorded delivery outcome for the order, newest sequence first.
func (s *Server) GetOrderResults(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetDispatchResultsQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	rows, err := s.getResultsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve results",
		})
	}

	response := make([]OrderResult, len(rows))
	for i, row := range rows {
		response[i] = OrderResult{
			TicketID:     row.TicketID.String(),
			EndpointID:   row.EndpointID.String(),
			EndpointName: row.EndpointName,
			Sequence:     row.Sequence,
			Outcome:      row.Outcome.String(),
			Attempts:     row.Attempts,
			LastError:    row.LastError,
			FinishedAt:   row.FinishedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// parseRuleTarget converts the wire representation of a rule's scope and
// endpoint into domain values.
func parseRuleTarget(scopeName, endpointID string) (assignment.Scope, kernel.UUID, error) {
	var scope assignment.Scope
	switch strings.ToLower(scopeName) {
	case "item":
		scope = assignment.ScopeItem
	case "category":
		scope = assignment.ScopeCategory
	default:
		return 0, kernel.UUID{}, errors.New("scope must be \"item\" or \"category\"")
	}

	id, err := kernel.UUIDFromString(endpointID)
	if err != nil {
		return 0, kernel.UUID{}, errors.New("invalid endpoint id")
	}

	return scope, id, nil
}

// toDispatchReport maps the application response onto the wire model.
func toDispatchReport(response commands.DispatchOrderResponse) DispatchReport {
	report := DispatchReport{
		Results: make([]DispatchOutcome, len(response.Results)),
	}

	for i, result := range response.Results {
		report.Results[i] = DispatchOutcome{
			TicketID:   result.TicketID().String(),
			EndpointID: result.EndpointID().String(),
			Outcome:    result.Outcome().String(),
			Attempts:   result.Attempts(),
			LastError:  result.LastError(),
			FinishedAt: result.FinishedAt(),
		}
	}

	for _, item := range response.Unrouted {
		report.Unrouted = append(report.Unrouted, OrderItem{
			ID:         item.ID(),
			MenuItemID: item.MenuItemID(),
			CategoryID: item.CategoryID(),
			Quantity:   item.Quantity(),
			Name:       item.Name(),
			Modifiers:  item.Modifiers(),
			Notes:      item.Notes(),
		})
	}

	return report
}
