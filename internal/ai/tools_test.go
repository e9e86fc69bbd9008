package ai

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/database"
	"go-invoice-api/internal/models"
	"go-invoice-api/internal/services"
)

type fakeTools struct {
	userID   uint
	from, to string
	marked   []string
}

func (f *fakeTools) ListByUser(_ context.Context, userID uint) ([]models.Invoice, error) {
	f.userID = userID
	inv := models.Invoice{
		ID:                    7,
		InvoiceNumber:         "LTC-1234567890",
		ClientName:            "Acme",
		InvoiceDate:           models.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		Status:                models.StatusPending,
		TotalAsPerIndianRupee: decimal.RequireFromString("8300"),
	}
	inv.SetLineItems(models.Items{{"id": float64(1), "description": "Design", "status": "pending"}})
	return []models.Invoice{inv}, nil
}

func (f *fakeTools) Summary(_ context.Context, userID uint, from, to string) (*database.InvoiceSummary, error) {
	f.userID, f.from, f.to = userID, from, to
	return &database.InvoiceSummary{
		InvoiceCount:   3,
		PaidCount:      1,
		PendingCount:   2,
		TotalINR:       decimal.NewFromInt(300),
		PaidINR:        decimal.NewFromInt(100),
		OutstandingINR: decimal.NewFromInt(200),
	}, nil
}

func (f *fakeTools) MarkItemPaid(_ context.Context, userID, invoiceID uint, itemID string) (*services.ItemUpdate, error) {
	f.userID = userID
	if invoiceID != 7 {
		return nil, apperr.NotFound("Invoice not found")
	}
	f.marked = append(f.marked, itemID)
	return &services.ItemUpdate{Item: models.Item{"id": itemID, "status": "paid"}, InvoiceStatus: models.StatusPaid}, nil
}

func TestToolboxListInvoices(t *testing.T) {
	tools := &fakeTools{}
	tb := &toolbox{tools: tools}

	out := tb.call(context.Background(), 42, "list_invoices", nil)
	if tools.userID != 42 {
		t.Fatalf("user: got=%d want=42", tools.userID)
	}
	list, ok := out["invoices"].([]invoiceBrief)
	if !ok || len(list) != 1 {
		t.Fatalf("out: %#v", out)
	}
	got := list[0]
	if got.InvoiceDate != "2025-03-01" || got.TotalINR != "8300.00" || len(got.Items) != 1 || got.Items[0].ID != "1" {
		t.Fatalf("brief: %+v", got)
	}
}

func TestToolboxSummary(t *testing.T) {
	tools := &fakeTools{}
	tb := &toolbox{tools: tools}

	out := tb.call(context.Background(), 1, "get_invoice_summary", map[string]any{"from": "2025-01-01"})
	if tools.from != "2025-01-01" || tools.to != "" {
		t.Fatalf("range: from=%q to=%q", tools.from, tools.to)
	}
	if out["outstanding_inr"] != "200.00" || out["paid_count"] != int64(1) {
		t.Fatalf("out: %#v", out)
	}
}

func TestToolboxMarkItemPaid(t *testing.T) {
	tools := &fakeTools{}
	tb := &toolbox{tools: tools}
	ctx := context.Background()

	out := tb.call(ctx, 1, "mark_item_paid", map[string]any{"invoice_id": float64(7), "item_id": float64(1)})
	if out["invoice_status"] != models.StatusPaid || len(tools.marked) != 1 || tools.marked[0] != "1" {
		t.Fatalf("out: %#v marked=%v", out, tools.marked)
	}

	out = tb.call(ctx, 1, "mark_item_paid", map[string]any{"invoice_id": float64(8), "item_id": "1"})
	if out["error"] != "Invoice not found" {
		t.Fatalf("missing invoice: %#v", out)
	}

	out = tb.call(ctx, 1, "mark_item_paid", map[string]any{"item_id": "1"})
	if _, ok := out["error"]; !ok {
		t.Fatalf("expected error without invoice_id: %#v", out)
	}

	out = tb.call(ctx, 1, "drop_tables", nil)
	if _, ok := out["error"]; !ok {
		t.Fatalf("expected error for unknown tool: %#v", out)
	}
}

func TestReplyText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Two invoices "), genai.Text("are pending.")}},
	}}}
	if got := replyText(resp); got != "Two invoices are pending." {
		t.Fatalf("reply: %q", got)
	}
	if got := replyText(&genai.GenerateContentResponse{}); got != "I completed the action." {
		t.Fatalf("empty reply: %q", got)
	}

	withCall := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.FunctionCall{Name: "list_invoices"}}},
	}}}
	if calls := functionCalls(withCall); len(calls) != 1 || calls[0].Name != "list_invoices" {
		t.Fatalf("calls: %+v", calls)
	}
}

func TestSystemPromptCarriesDate(t *testing.T) {
	p := systemPrompt(time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC))
	if want := "Today is 2025-06-30."; len(p) < len(want) || p[:len(want)] != want {
		t.Fatalf("prompt: %q", p)
	}
}
