// Package claude implements llm.Transport against the Anthropic Messages
// API. Unlike the openai subpackage, it does not force a tool call — the
// anthropic-sdk-go version this module pins predates broad tool-use
// support — so it relies on a strict "return only JSON" prompt plus
// markdown-tolerant extraction instead.
package claude

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
)

// DefaultModel is used when Params.Model is empty.
const DefaultModel = "claude-sonnet-4-20250514"

// Transport implements llm.Transport against the Anthropic Messages API.
type Transport struct {
	client *anthropic.Client
}

// New constructs a Transport. apiKey is expected to already have been
// resolved (vault lookup, then environment fallback) by the caller.
func New(apiKey string) (*Transport, error) {
	return NewWithBaseURL(apiKey, "")
}

// NewWithBaseURL constructs a Transport against a custom API base URL,
// letting tests point the client at a local stub server.
func NewWithBaseURL(apiKey, baseURL string) (*Transport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude: API key must not be empty")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Transport{client: client}, nil
}

var _ llm.Transport = (*Transport)(nil)

// Analyze sends one sub-batch to Claude as a single user message and
// parses the reply's JSON object, tolerating a markdown code fence.
func (t *Transport) Analyze(ctx context.Context, req llm.BatchRequest) (llm.BatchResponse, error) {
	if err := llm.ValidateBatch(req.Files); err != nil {
		return llm.BatchResponse{}, err
	}

	prompt, err := llm.BuildPrompt(req.Files)
	if err != nil {
		return llm.BatchResponse{}, err
	}

	model := req.Params.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := req.Params.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	callCtx := ctx
	if req.Params.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Params.Timeout)
		defer cancel()
	}

	message, err := t.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:       anthropic.F(model),
		MaxTokens:   anthropic.F(int64(maxTokens)),
		Temperature: anthropic.F(req.Params.Temperature),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return llm.BatchResponse{}, fmt.Errorf("claude: messages.new failed: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
		}
	}
	if text == "" {
		return llm.BatchResponse{}, fmt.Errorf("claude: response contained no text block")
	}

	recs, err := llm.ParseFileAnalyses(text)
	if err != nil {
		return llm.BatchResponse{}, err
	}

	ordered, err := llm.ReorderByPath(req.Files, recs)
	if err != nil {
		return llm.BatchResponse{}, err
	}

	return llm.BatchResponse{
		Recommendations: ordered,
		TokensUsed:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}
