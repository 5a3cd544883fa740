// Package summary generates short natural-language summaries of profiles
// through an OpenAI-compatible chat completions endpoint.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pageinsights-api/internal/model"
)

// ErrDisabled indicates no API key is configured.
var ErrDisabled = errors.New("summary generation is not configured")

// Summarizer produces a text summary for a profile.
type Summarizer interface {
	SummarizeProfile(ctx context.Context, p *model.Profile) (string, error)
}

// Disabled is the no-op Summarizer used when no API key is configured.
type Disabled struct{}

// SummarizeProfile always reports ErrDisabled.
func (Disabled) SummarizeProfile(context.Context, *model.Profile) (string, error) {
	return "", ErrDisabled
}

// OpenAIClient implements Summarizer against the chat completions API.
type OpenAIClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	log     *zap.Logger
}

// Config holds OpenAI connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAIClient creates a summarizer backed by the OpenAI API.
func NewOpenAIClient(cfg Config, log *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		log:     log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeProfile asks the model for a concise profile summary.
func (c *OpenAIClient) SummarizeProfile(ctx context.Context, p *model.Profile) (string, error) {
	prompt := buildPrompt(p)

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You summarize company profiles in two or three factual sentences."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read summary response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("summary API error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summary API returned status %d with no choices", resp.StatusCode)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	c.log.Info("generated profile summary",
		zap.String("profile_id", p.ProfileID), zap.Int("length", len(text)))
	return text, nil
}

func buildPrompt(p *model.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize this company profile.\nName: %s\n", p.Name)
	if p.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", p.Industry)
	}
	fmt.Fprintf(&b, "Followers: %d\n", p.FollowersCount)
	if p.Headcount != "" {
		fmt.Fprintf(&b, "Headcount: %s\n", p.Headcount)
	}
	if len(p.Specialties) > 0 {
		fmt.Fprintf(&b, "Specialties: %s\n", strings.Join(p.Specialties, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	return b.String()
}
