// Package openai implements llm.Transport against the OpenAI chat
// completions API, forcing a tool call so the response is a validated JSON
// object rather than free-form prose.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
)

// DefaultModel is used when Params.Model is empty.
const DefaultModel = openai.GPT4TurboPreview

// Transport implements llm.Transport against OpenAI's chat completion API.
type Transport struct {
	client *openai.Client
}

// New constructs a Transport. apiKey is expected to already have been
// resolved (vault lookup, then environment fallback) by the caller;
// this package has no opinion on credential storage.
func New(apiKey string, baseURL string) (*Transport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key must not be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Transport{client: openai.NewClientWithConfig(cfg)}, nil
}

var _ llm.Transport = (*Transport)(nil)

// Analyze sends one sub-batch to OpenAI, forcing a call to the
// analyze_files_for_cleanup function so the reply is a schema-validated
// JSON object instead of free text.
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

	fn := &openai.FunctionDefinition{
		Name:        llm.FunctionName(),
		Description: "Report disk-cleanup recommendations for a batch of file metadata records.",
		Parameters:  llm.FunctionSchema(),
	}

	chatCtx := ctx
	if req.Params.Timeout > 0 {
		var cancel context.CancelFunc
		chatCtx, cancel = context.WithTimeout(ctx, req.Params.Timeout)
		defer cancel()
	}

	resp, err := t.client.CreateChatCompletion(chatCtx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(req.Params.Temperature),
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools: []openai.Tool{
			{Type: openai.ToolTypeFunction, Function: fn},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: llm.FunctionName()},
		},
	})
	if err != nil {
		return llm.BatchResponse{}, fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return llm.BatchResponse{}, fmt.Errorf("openai: model did not call %s", llm.FunctionName())
	}

	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	recs, err := llm.ParseFileAnalyses(args)
	if err != nil {
		return llm.BatchResponse{}, err
	}

	ordered, err := llm.ReorderByPath(req.Files, recs)
	if err != nil {
		return llm.BatchResponse{}, err
	}

	return llm.BatchResponse{
		Recommendations: ordered,
		TokensUsed:      resp.Usage.TotalTokens,
	}, nil
}
