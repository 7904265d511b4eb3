// Package ai wraps the OpenAI-compatible completion API behind the comment
// generation endpoints.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	commentPrompt = "Generate a natural, engaging LinkedIn comment. 2-3 sentences max, no hashtags. Same language as the post."
	replyPrompt   = "Generate a natural reply to this LinkedIn comment. 1-2 sentences, no hashtags. Same language."
	rewritePrompt = "Rewrite this LinkedIn comment to be more engaging. Keep same language, tone, and length."
	summaryPrompt = "Summarize this LinkedIn post in 2-3 concise sentences. Same language as the post. Be direct and informative."

	variantsPrompt = `Generate 3 different engaging LinkedIn comments for this post. Reply ONLY in JSON: {"comment_left":"your first comment here","comment_center":"your second comment here","comment_right":"your third comment here"}. Each comment should be natural, 1-3 sentences, no hashtags, no brackets, no labels. The first should agree/congratulate, the second should ask a thoughtful question, the third should share an insight. Same language as the post.`
)

// Variants holds the three alternative comments of a generate-thinking call.
type Variants struct {
	Left   string `json:"comment_left"`
	Center string `json:"comment_center"`
	Right  string `json:"comment_right"`
}

// Client talks to any OpenAI-compatible chat completion API.
// A nil Client is valid and reports itself as disabled.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New creates a client. Set baseURL to a non-empty string to point at a
// local server (LM Studio, llama.cpp, Ollama's /v1 endpoint, etc.); leave
// empty for api.openai.com. Returns nil when no API key is configured.
func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c != nil
}

// Comment generates a single comment for the given post text. isReply
// switches to the reply prompt.
func (c *Client) Comment(ctx context.Context, text string, isReply bool) (string, error) {
	prompt := commentPrompt
	if isReply {
		prompt = replyPrompt
	}
	return c.complete(ctx, prompt, text, 200, false)
}

// CommentVariants generates three alternative comments in one call.
func (c *Client) CommentVariants(ctx context.Context, text string) (Variants, error) {
	out, err := c.complete(ctx, variantsPrompt, text, 400, true)
	if err != nil {
		return Variants{}, err
	}
	var v Variants
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return Variants{}, fmt.Errorf("decode variants: %w", err)
	}
	return v, nil
}

// Rewrite rephrases an existing comment.
func (c *Client) Rewrite(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, rewritePrompt, text, 200, false)
}

// Summarize produces a short summary of a post.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, summaryPrompt, text, 200, false)
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %q", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}
