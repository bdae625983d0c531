package http

import "time"

// Error is the uniform error body returned by every failing handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewEndpoint is the request body for registering an output device.
type NewEndpoint struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	LineWidth   int    `json:"lineWidth"`
	SupportsCut bool   `json:"supportsCut"`
}

// UpdateEndpoint is the request body for editing a registered device's
// configuration, including enabling it after discovery.
type UpdateEndpoint struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	LineWidth   int    `json:"lineWidth"`
	SupportsCut bool   `json:"supportsCut"`
	Enabled     bool   `json:"enabled"`
}

// Endpoint is the read model of a registered device including its health.
type Endpoint struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Host                string     `json:"host"`
	Port                int        `json:"port"`
	LineWidth           int        `json:"lineWidth"`
	SupportsCut         bool       `json:"supportsCut"`
	Health              string     `json:"health"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastSeenAt          *time.Time `json:"lastSeenAt,omitempty"`
	Enabled             bool       `json:"enabled"`
}

// NewRule is the request body for setting an assignment rule.
type NewRule struct {
	Scope      string `json:"scope"`
	TargetID   string `json:"targetId"`
	EndpointID string `json:"endpointId"`
}

// Rule is the read model of one assignment rule.
type Rule struct {
	ID         string    `json:"id"`
	Scope      string    `json:"scope"`
	TargetID   string    `json:"targetId"`
	EndpointID string    `json:"endpointId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RuleSet is the full assignment configuration.
type RuleSet struct {
	Rules             []Rule  `json:"rules"`
	DefaultEndpointID *string `json:"defaultEndpointId,omitempty"`
}

// DefaultEndpoint is the request body for setting the fallback endpoint.
type DefaultEndpoint struct {
	EndpointID string `json:"endpointId"`
}

// OrderItem is one line item of a dispatch request.
type OrderItem struct {
	ID         string   `json:"id"`
	MenuItemID string   `json:"menuItemId"`
	CategoryID string   `json:"categoryId,omitempty"`
	Quantity   int      `json:"quantity"`
	Name       string   `json:"name"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// DispatchOrder is the request body for dispatching an order snapshot.
type DispatchOrder struct {
	Origin   string      `json:"origin"`
	PlacedAt time.Time   `json:"placedAt"`
	Items    []OrderItem `json:"items"`
	Resend   bool        `json:"resend"`
}

// DispatchOutcome is one per-endpoint delivery outcome.
type DispatchOutcome struct {
	TicketID   string     `json:"ticketId"`
	EndpointID string     `json:"endpointId"`
	Outcome    string     `json:"outcome"`
	Attempts   int        `json:"attempts"`
	LastError  string     `json:"lastError,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// DispatchReport is the response body of a dispatch call.
type DispatchReport struct {
	Results  []DispatchOutcome `json:"results"`
	Unrouted []OrderItem       `json:"unrouted,omitempty"`
}

// OrderResult is one historical result row for an order.
type OrderResult struct {
	TicketID     string     `json:"ticketId"`
	EndpointID   string     `json:"endpointId"`
	EndpointName string     `json:"endpointName"`
	Sequence     int        `json:"sequence"`
	Outcome      string     `json:"outcome"`
	Attempts     int        `json:"attempts"`
	LastError    string     `json:"lastError,omitempty"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}
