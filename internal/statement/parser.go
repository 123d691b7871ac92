// Package statement turns free-form bank statement text into transaction
// drafts using Gemini. Drafts are suggestions for the entry form; nothing
// here writes to the ledger.
package statement

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"financas/internal/core"
)

// Draft is a model-suggested transaction awaiting user confirmation.
type Draft struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Date        time.Time  `json:"date"`
	Category    string     `json:"category"`
}

type Parser struct {
	client *genai.Client
	model  string
}

// NewParser creates a Gemini-backed parser. The API key comes from the
// environment (GEMINI_API_KEY), resolved by the client itself.
func NewParser(ctx context.Context, model string) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Parser{client: client, model: model}, nil
}

// Parse sends the statement text to the model and returns the drafts it
// found. The model is instructed to emit strict JSON; fences and stray
// prose around the array are stripped before decoding.
func (p *Parser) Parse(ctx context.Context, text string) ([]Draft, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt()},
				{Text: text},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	drafts, err := decodeDrafts(cleanModelJSON(rawText))
	if err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	return drafts, nil
}

func buildPrompt() string {
	return "You are a financial statement parser for Brazilian bank and credit card statements.\n\n" +
		"Task:\n" +
		"- Parse ALL expense lines in the statement text that follows.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a JSON array of objects.\n\n" +
		"Each object must have these fields:\n" +
		"- \"description\": string\n" +
		"- \"amount\": number (always positive, in BRL)\n" +
		"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
		"- \"category\": string, one of: " + strings.Join(core.SuggestedExpenseCategories, ", ") + "\n\n" +
		"Rules:\n" +
		"- Skip payments, refunds and statement totals.\n" +
		"- If a line does not fit any category, use \"Outros\".\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"[\" and end with \"]\".\n"
}

// rawDraft is the wire shape the model emits. Amounts arrive as JSON
// numbers or numeric strings; dates as ISO day strings.
type rawDraft struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

func decodeDrafts(clean string) ([]Draft, error) {
	var raw []rawDraft
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}

	drafts := make([]Draft, 0, len(raw))
	for i, r := range raw {
		amount, err := core.ParseAmount(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("draft %d: invalid amount %q", i, r.Amount)
		}
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("draft %d: invalid date %q", i, r.Date)
		}
		category := r.Category
		if category == "" {
			category = "Outros"
		}
		drafts = append(drafts, Draft{
			Description: r.Description,
			Amount:      amount,
			Date:        date,
			Category:    category,
		})
	}
	return drafts, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there is still prose around the array, keep only the first '['
	// through the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
