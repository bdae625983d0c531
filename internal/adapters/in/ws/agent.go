// Package ws implements the order feed agent: a long-lived WebSocket client
// that registers with the upstream order collaborator, answers keepalive
// pings, and turns incoming print_order messages into dispatch cycles.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/gorilla/websocket"
)

// DefaultReconnectDelay is the pause between connection attempts after the
// feed drops.
const DefaultReconnectDelay = 5 * time.Second

// Feed message types exchanged with the order collaborator.
const (
	messageTypeRegister    = "register"
	messageTypeRegistered  = "registered"
	messageTypePing        = "ping"
	messageTypePong        = "pong"
	messageTypePrintOrder  = "print_order"
	messageTypePrinted     = "printed"
	messageTypePrintFailed = "print_failed"
	messageTypeUnregister  = "unregister"
)

// feedMessage is the envelope for every message on the feed.
type feedMessage struct {
	Type     string          `json:"type"`
	AgentKey string          `json:"agentKey,omitempty"`
	Order    json.RawMessage `json:"order,omitempty"`
	OrderID  string          `json:"orderId,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// orderPayload is the order snapshot carried by a print_order message.
type orderPayload struct {
	ID       string        `json:"id"`
	Origin   string        `json:"origin"`
	PlacedAt time.Time     `json:"placedAt"`
	Items    []itemPayload `json:"items"`
	Resend   bool          `json:"resend"`
}

type itemPayload struct {
	ID         string   `json:"id"`
	MenuItemID string   `json:"menuItemId"`
	CategoryID string   `json:"categoryId"`
	Quantity   int      `json:"quantity"`
	Name       string   `json:"name"`
	Modifiers  []string `json:"modifiers"`
	Notes      string   `json:"notes"`
}

// OrderFeedAgent keeps one connection to the upstream order feed and drives
// the dispatch workflow for every order it pushes. The agent reconnects
// forever until its context is cancelled.
type OrderFeedAgent struct {
	feedURL        string
	apiKey         string
	agentKey       string
	dispatchOrder  commands.DispatchOrderCommandHandler
	reconnectDelay time.Duration
	logger         *slog.Logger
}

// NewOrderFeedAgent creates an agent for the given feed URL.
func NewOrderFeedAgent(
	feedURL string,
	apiKey string,
	agentKey string,
	dispatchOrder commands.DispatchOrderCommandHandler,
	logger *slog.Logger,
) (*OrderFeedAgent, error) {
	if feedURL == "" {
		return nil, errs.NewValueIsRequiredError("feedURL")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderFeedAgent{
		feedURL:        feedURL,
		apiKey:         apiKey,
		agentKey:       agentKey,
		dispatchOrder:  dispatchOrder,
		reconnectDelay: DefaultReconnectDelay,
		logger:         logger.With("component", "order_feed"),
	}, nil
}

// Run connects to the feed and processes messages until the context is
// cancelled. Connection loss triggers a reconnect after a fixed delay.
func (a *OrderFeedAgent) Run(ctx context.Context) {
	header := http.Header{}
	if a.apiKey != "" {
		header.Add("X-Api-Key", a.apiKey)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.feedURL, header)
		if err != nil {
			a.logger.Warn("connection failed, retrying",
				"url", a.feedURL, "delay", a.reconnectDelay, "error", err)
			if !sleepCtx(ctx, a.reconnectDelay) {
				return
			}
			continue
		}

		a.logger.Info("connected to order feed", "url", a.feedURL)
		a.handleConnection(ctx, conn)
		_ = conn.Close()

		a.logger.Info("disconnected from order feed", "delay", a.reconnectDelay)
		if !sleepCtx(ctx, a.reconnectDelay) {
			return
		}
	}
}

// handleConnection registers the agent and consumes messages until the
// connection errors, the server unregisters us, or the context is cancelled.
func (a *OrderFeedAgent) handleConnection(ctx context.Context, conn *websocket.Conn) {
	if err := conn.WriteJSON(feedMessage{Type: messageTypeRegister, AgentKey: a.agentKey}); err != nil {
		a.logger.Error("failed to send register", "error", err)
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				a.logger.Warn("read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case messageTypeRegistered:
			a.logger.Info("registered with order feed")

		case messageTypePing:
			if err := conn.WriteJSON(feedMessage{Type: messageTypePong, AgentKey: a.agentKey}); err != nil {
				a.logger.Warn("failed to send pong", "error", err)
				return
			}

		case messageTypePrintOrder:
			a.handlePrintOrder(ctx, conn, msg.Order)

		case messageTypeUnregister:
			a.logger.Info("server requested unregister")
			return

		default:
			a.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// handlePrintOrder runs one dispatch cycle for the pushed order and reports
// the outcome back on the feed. Unrouted items and partial failures count as
// a failed print so the upstream can alert the operator.
func (a *OrderFeedAgent) handlePrintOrder(ctx context.Context, conn *websocket.Conn, rawOrder json.RawMessage) {
	var payload orderPayload
	if err := json.Unmarshal(rawOrder, &payload); err != nil {
		a.logger.Error("failed to parse order payload", "error", err)
		a.reportFailure(conn, "", "invalid order payload: "+err.Error())
		return
	}

	cmd, err := a.buildCommand(payload)
	if err != nil {
		a.logger.Error("invalid order data", "order_id", payload.ID, "error", err)
		a.reportFailure(conn, payload.ID, err.Error())
		return
	}

	response, err := a.dispatchOrder.Handle(ctx, cmd)
	if err != nil {
		// A repeated push of an already printed order is not a failure; the
		// feed retries deliveries it never got an ack for.
		if errors.Is(err, commands.ErrOrderAlreadyDispatched) {
			a.logger.Info("order already dispatched, acking", "order_id", payload.ID)
			a.reportSuccess(conn, payload.ID)
			return
		}

		a.logger.Error("dispatch failed", "order_id", payload.ID, "error", err)
		a.reportFailure(conn, payload.ID, err.Error())
		return
	}

	if reason := failureReason(response); reason != "" {
		a.logger.Warn("dispatch incomplete", "order_id", payload.ID, "reason", reason)
		a.reportFailure(conn, payload.ID, reason)
		return
	}

	a.logger.Info("order printed", "order_id", payload.ID, "tickets", len(response.Results))
	a.reportSuccess(conn, payload.ID)
}

func (a *OrderFeedAgent) buildCommand(payload orderPayload) (commands.DispatchOrderCommand, error) {
	orderID, err := kernel.UUIDFromString(payload.ID)
	if err != nil {
		return commands.DispatchOrderCommand{}, err
	}

	items := make([]order.LineItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		lineItem, itemErr := order.NewLineItem(
			item.ID, item.MenuItemID, item.CategoryID, item.Quantity,
			item.Name, item.Modifiers, item.Notes)
		if itemErr != nil {
			return commands.DispatchOrderCommand{}, itemErr
		}
		items = append(items, lineItem)
	}

	return commands.NewDispatchOrderCommand(orderID, payload.Origin, payload.PlacedAt, items, payload.Resend)
}

func (a *OrderFeedAgent) reportSuccess(conn *websocket.Conn, orderID string) {
	err := conn.WriteJSON(feedMessage{
		Type:     messageTypePrinted,
		AgentKey: a.agentKey,
		OrderID:  orderID,
	})
	if err != nil {
		a.logger.Warn("failed to send printed ack", "order_id", orderID, "error", err)
	}
}

func (a *OrderFeedAgent) reportFailure(conn *websocket.Conn, orderID, reason string) {
	err := conn.WriteJSON(feedMessage{
		Type:     messageTypePrintFailed,
		AgentKey: a.agentKey,
		OrderID:  orderID,
		Error:    reason,
	})
	if err != nil {
		a.logger.Warn("failed to send print_failed", "order_id", orderID, "error", err)
	}
}

// failureReason summarizes why a dispatch cycle should be reported failed,
// or returns "" when every destination got its ticket.
func failureReason(response commands.DispatchOrderResponse) string {
	if len(response.Unrouted) > 0 {
		return "some items had no destination"
	}

	for _, result := range response.Results {
		if result.Outcome() != dispatch.OutcomeDelivered {
			return "delivery failed at one or more endpoints"
		}
	}

	return ""
}

// sleepCtx waits for the duration or the context, whichever ends first.
// Reports false when the context was cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
