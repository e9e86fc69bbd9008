// Package ai runs a Gemini chat session that can answer questions about the
// caller's invoices and mark items paid through function tools.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"go-invoice-api/internal/database"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/models"
	"go-invoice-api/internal/services"
)

const (
	DefaultModel = "gemini-2.0-flash-001"

	// maxToolRounds caps how many tool call round trips one question may take.
	maxToolRounds = 5
)

// InvoiceTools is what the assistant may do on the caller's behalf.
type InvoiceTools interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Invoice, error)
	Summary(ctx context.Context, userID uint, from, to string) (*database.InvoiceSummary, error)
	MarkItemPaid(ctx context.Context, userID, invoiceID uint, itemID string) (*services.ItemUpdate, error)
}

type Agent struct {
	client  *genai.Client
	model   string
	toolbox *toolbox
	log     *logger.Logger
	now     func() time.Time
}

func NewAgent(ctx context.Context, apiKey, model string, tools InvoiceTools, log *logger.Logger) (*Agent, error) {
	if apiKey == "" {
		return nil, errors.New("ai: missing api key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: new client: %w", err)
	}
	return &Agent{
		client:  client,
		model:   model,
		toolbox: &toolbox{tools: tools},
		log:     log.With("component", "assistant"),
		now:     time.Now,
	}, nil
}

func (a *Agent) Close() error { return a.client.Close() }

// Ask sends one question and keeps answering tool calls until the model
// replies with text.
func (a *Agent) Ask(ctx context.Context, userID uint, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(a.now())))

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("ai: send: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp), nil
		}
		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.Info("tool call", "tool", call.Name, "user_id", userID)
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: a.toolbox.call(ctx, userID, call.Name, call.Args),
			})
		}
		resp, err = session.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("ai: send tool results: %w", err)
		}
	}
	a.log.Warn("tool round limit reached", "user_id", userID)
	return replyText(resp), nil
}

func systemPrompt(now time.Time) string {
	return fmt.Sprintf(`Today is %s. You are an invoicing assistant for one user.

RULES:
1. Amounts are in rupees unless the invoice says otherwise. Use 'get_invoice_summary' for totals.
2. To find an invoice or item, call 'list_invoices' first. Never ask the user for ids you can look up.
3. Only call 'mark_item_paid' when the user clearly asks to mark something paid.`, now.Format(time.DateOnly))
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, part := range parts(resp) {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range parts(resp) {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "I completed the action."
	}
	return b.String()
}

func parts(resp *genai.GenerateContentResponse) []genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}
