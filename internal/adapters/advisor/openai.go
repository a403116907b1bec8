package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"hostel_picker/internal/adapters/observability"
	"hostel_picker/internal/domain"
)

const DefaultModel = "gpt-4o-mini"

// Client asks a chat-completion model to pick and explain venues from an
// already scored shortlist.
type Client struct {
	api   *openai.Client
	model string
	lim   *rate.Limiter
}

// New builds a client for apiKey. baseURL overrides the public endpoint and
// is mostly useful for proxies and tests. rps <= 0 disables rate limiting.
func New(apiKey, model, baseURL string, rps int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, lim: lim}
}

type venue struct {
	Record    domain.Record   `json:"record"`
	Scores    domain.ScoreSet `json:"scores"`
	Aggregate float64         `json:"aggregate"`
}

func (c *Client) Advise(ctx context.Context, req domain.AdviceRequest) (domain.Advice, error) {
	if err := c.lim.Wait(ctx); err != nil {
		return domain.Advice{}, err
	}

	system, err := systemPrompt(req)
	if err != nil {
		return domain.Advice{}, err
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	observability.ObserveExternal("advisor", "chat_completion", statusOf(err), time.Since(start))
	if err != nil {
		return domain.Advice{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Advice{}, errors.New("chat completion returned no choices")
	}

	var out domain.Advice
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return domain.Advice{}, fmt.Errorf("decode advice: %w", err)
	}
	return out, nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func systemPrompt(req domain.AdviceRequest) (string, error) {
	db := make([]venue, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		db = append(db, venue{Record: c.Record, Scores: c.Scores, Aggregate: c.Aggregate})
	}
	dbJSON, err := json.Marshal(db)
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}
	ctxJSON, err := json.Marshal(req.Profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return fmt.Sprintf(promptTemplate, req.Profile.TargetPrice(), string(dbJSON), string(ctxJSON)), nil
}

const promptTemplate = `You are a straight-talking hostel matchmaker. Give honest, practical advice based on the data below.

Return EXACTLY 3 recommendations from DATABASE that best fit USER CONTEXT.

Every venue already carries per-criterion scores (0-100) and a weighted aggregate. Start from those numbers; adjust only when the raw columns clearly contradict them and say so in the audit log.

Treat maxPrice (EUR %.2f) as an estimated ideal price, not a hard limit. Do not drop venues for being over it.

Rules:
- The profile in USER CONTEXT is final. Do not ask for data it already contains.
- Return an empty recommendations array only when the latest message is a plain greeting.
- Put red flags in "alert" ("None" when there are none).
- Quote raw column values as proof in audit_log.

DATABASE: %s
USER CONTEXT: %s

Answer with a single JSON object:
{
  "recommendations": [
    {
      "name": "hostel_name exactly as in DATABASE",
      "location": "city",
      "matchPercentage": 0,
      "price": "pricing",
      "vibe": "vibe_dna",
      "alert": "red flags or 'None'",
      "reason": "why this is a match",
      "audit_log": {
        "score_breakdown": "...",
        "price_logic": "...",
        "noise_logic": "...",
        "vibe_logic": "...",
        "trade_off_analysis": "..."
      }
    }
  ],
  "message": "strategic advice or a clarifying question"
}`
