package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/models"
)

var declarations = []*genai.FunctionDeclaration{
	{
		Name:        "list_invoices",
		Description: "List the user's invoices with number, client, date, status, rupee total and line items (id, description, status).",
	},
	{
		Name:        "get_invoice_summary",
		Description: "Count paid and pending invoices and sum their rupee totals for a date range.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"from": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD), optional"},
				"to":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD), optional"},
			},
		},
	},
	{
		Name:        "mark_item_paid",
		Description: "Mark one line item of an invoice as paid. Returns the new invoice status.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"invoice_id": {Type: genai.TypeInteger, Description: "Numeric id of the invoice"},
				"item_id":    {Type: genai.TypeString, Description: "Id of the line item"},
			},
			Required: []string{"invoice_id", "item_id"},
		},
	},
}

// toolbox executes tool calls for a single user. Failures are reported back
// to the model as {"error": ...} rather than ending the conversation.
type toolbox struct {
	tools InvoiceTools
}

type invoiceBrief struct {
	ID            uint          `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	ClientName    string        `json:"client_name"`
	InvoiceDate   string        `json:"invoice_date"`
	Status        models.Status `json:"status"`
	TotalINR      string        `json:"total_inr"`
	Items         []itemBrief   `json:"items"`
}

type itemBrief struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
}

func (t *toolbox) call(ctx context.Context, userID uint, name string, args map[string]any) map[string]any {
	switch name {
	case "list_invoices":
		return t.listInvoices(ctx, userID)
	case "get_invoice_summary":
		return t.summary(ctx, userID, args)
	case "mark_item_paid":
		return t.markItemPaid(ctx, userID, args)
	default:
		return failure(fmt.Errorf("unknown tool %q", name))
	}
}

func (t *toolbox) listInvoices(ctx context.Context, userID uint) map[string]any {
	invoices, err := t.tools.ListByUser(ctx, userID)
	if err != nil {
		return failure(err)
	}
	out := make([]invoiceBrief, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		brief := invoiceBrief{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    inv.ClientName,
			InvoiceDate:   inv.InvoiceDate.String(),
			Status:        inv.Status,
			TotalINR:      inv.TotalAsPerIndianRupee.StringFixed(2),
		}
		for _, it := range inv.LineItems() {
			desc, _ := it["description"].(string)
			brief.Items = append(brief.Items, itemBrief{ID: it.ID(), Description: desc, Status: it.Status()})
		}
		out = append(out, brief)
	}
	return map[string]any{"invoices": out}
}

func (t *toolbox) summary(ctx context.Context, userID uint, args map[string]any) map[string]any {
	from, _ := args["from"].(string)
	to, _ := args["to"].(string)
	s, err := t.tools.Summary(ctx, userID, from, to)
	if err != nil {
		return failure(err)
	}
	return map[string]any{
		"invoice_count":   s.InvoiceCount,
		"paid_count":      s.PaidCount,
		"pending_count":   s.PendingCount,
		"total_inr":       s.TotalINR.StringFixed(2),
		"paid_inr":        s.PaidINR.StringFixed(2),
		"outstanding_inr": s.OutstandingINR.StringFixed(2),
	}
}

func (t *toolbox) markItemPaid(ctx context.Context, userID uint, args map[string]any) map[string]any {
	rawID, ok := args["invoice_id"].(float64)
	if !ok || rawID <= 0 {
		return failure(errors.New("invoice_id must be a positive number"))
	}
	itemID := models.ItemKey(args["item_id"])
	if itemID == "" {
		return failure(errors.New("item_id is required"))
	}
	res, err := t.tools.MarkItemPaid(ctx, userID, uint(rawID), itemID)
	if err != nil {
		return failure(err)
	}
	return map[string]any{"status": "updated", "item_id": itemID, "invoice_status": res.InvoiceStatus}
}

// failure reports err to the model. Internal causes stay in the server log.
func failure(err error) map[string]any {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return map[string]any{"error": ae.Message}
	}
	return map[string]any{"error": err.Error()}
}
