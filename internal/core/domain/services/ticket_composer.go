package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ESC/POS control sequences understood by raster thermal printers.
// The composer owns the bit-exact framing; the transport sends the
// rendered bytes unmodified.
var (
	rasterInit        = []byte{0x1B, 0x40}
	rasterAlignCenter = []byte{0x1B, 0x61, 0x01}
	rasterAlignLeft   = []byte{0x1B, 0x61, 0x00}
	rasterBoldOn      = []byte{0x1B, 0x45, 0x01}
	rasterBoldOff     = []byte{0x1B, 0x45, 0x00}
	rasterFeedThree   = []byte{0x1B, 0x64, 0x03}
	rasterCut         = []byte{0x1D, 0x56, 0x00}
)

// TicketComposer is a domain service that renders one endpoint's bucket of
// line items into an immutable Ticket.
//
// Rendering is deterministic and side-effect-free: the same endpoint, items,
// order, and sequence always produce byte-identical content. The layout is a
// centered header block (origin, order identifier, placement time, reprint
// marker for sequences above 1), one block per line item with modifiers
// indented under the item and free-text notes bracketed, then a separator
// and a paper-cut instruction when the device supports it.
//
// Lines longer than the endpoint's declared width wrap on word boundaries
// instead of failing, so narrow devices degrade gracefully.
type TicketComposer struct{}

// NewTicketComposer creates a new TicketComposer instance.
func NewTicketComposer() TicketComposer {
	return TicketComposer{}
}

// Compose renders the given items into a ticket destined for the endpoint.
// The item list must be non-empty: the coordinator never composes for an
// endpoint with an empty bucket.
func (c TicketComposer) Compose(
	ep *endpoint.Endpoint,
	items []order.LineItem,
	o *order.Order,
	sequence int,
	at time.Time,
) (*dispatch.Ticket, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	width := ep.Capability().LineWidth()

	var buf bytes.Buffer
	buf.Write(rasterInit)

	c.writeHeader(&buf, o, sequence, width)
	c.writeItems(&buf, items, width)
	c.writeFooter(&buf, ep, width)

	return dispatch.NewTicket(kernel.NewUUID(), ep.ID(), o.ID(), sequence, buf.Bytes(), at)
}

func (c TicketComposer) writeHeader(buf *bytes.Buffer, o *order.Order, sequence int, width int) {
	buf.Write(rasterAlignCenter)
	buf.Write(rasterBoldOn)
	c.writeWrapped(buf, o.Origin(), width, "")
	buf.Write(rasterBoldOff)

	c.writeWrapped(buf, fmt.Sprintf("Order %s", o.ID()), width, "")
	c.writeWrapped(buf, o.PlacedAt().Format("15:04 02.01.2006"), width, "")

	if sequence > 1 {
		buf.Write(rasterBoldOn)
		c.writeWrapped(buf, fmt.Sprintf("** REPRINT %d **", sequence), width, "")
		buf.Write(rasterBoldOff)
	}

	buf.Write(rasterAlignLeft)
	c.writeSeparator(buf, width)
}

func (c TicketComposer) writeItems(buf *bytes.Buffer, items []order.LineItem, width int) {
	for _, item := range items {
		buf.Write(rasterBoldOn)
		c.writeWrapped(buf, fmt.Sprintf("%dx %s", item.Quantity(), item.Name()), width, "")
		buf.Write(rasterBoldOff)

		for _, modifier := range item.Modifiers() {
			c.writeWrapped(buf, modifier, width, "  ")
		}
		if notes := item.Notes(); notes != "" {
			c.writeWrapped(buf, fmt.Sprintf("[%s]", notes), width, "  ")
		}
	}
}

func (c TicketComposer) writeFooter(buf *bytes.Buffer, ep *endpoint.Endpoint, width int) {
	c.writeSeparator(buf, width)
	buf.Write(rasterFeedThree)
	if ep.Capability().SupportsCut() {
		buf.Write(rasterCut)
	}
}

func (c TicketComposer) writeSeparator(buf *bytes.Buffer, width int) {
	buf.WriteString(strings.Repeat("-", width))
	buf.WriteByte('\n')
}

// writeWrapped emits the text prefixed with indent, wrapping on word
// boundaries at the device width. Words longer than a full line are
// hard-split rather than dropped.
func (c TicketComposer) writeWrapped(buf *bytes.Buffer, text string, width int, indent string) {
	usable := width - len(indent)
	if usable < 1 {
		usable = 1
	}

	for _, line := range wrapText(text, usable) {
		buf.WriteString(indent)
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current string
	)

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range words {
		for len(word) > width {
			flush()
			lines = append(lines, word[:width])
			word = word[width:]
		}

		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	return lines
}
