package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"faq-bot/config"
	appErrors "faq-bot/errors"
)

const systemPrompt = "You are a support assistant. Answer briefly and to the point."

// ContextChunk is one knowledge base excerpt passed to the model as grounding
// for a free-form question.
type ContextChunk struct {
	Question string
	Answer   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	// Use a client with the configured timeout; callers additionally bound
	// requests through the context.
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.LLMRequestTimeout},
		logger:     logger,
	}
}

// Generate performs a non-streaming chat completion call with the knowledge
// base excerpts folded into the prompt. Any transport, auth or decode failure
// comes back wrapped in ErrLLMCommunication; the orchestrator converts that
// into a user-visible apology, it is never fatal.
func (c *Client) Generate(ctx context.Context, question string, chunks []ContextChunk) (string, error) {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}

	if len(chunks) > 0 {
		var sb strings.Builder
		sb.WriteString("Context:\n")
		for _, chunk := range chunks {
			fmt.Fprintf(&sb, "Q: %s\nA: %s\n", chunk.Question, chunk.Answer)
		}
		messages = append(messages, chatMessage{Role: "user", Content: sb.String()})
	}

	messages = append(messages, chatMessage{Role: "user", Content: question})

	temperature := c.cfg.LLMTemperature
	reqBody := chatRequest{
		Model:       c.cfg.LLMModel,
		Messages:    messages,
		Stream:      false,
		Temperature: &temperature,
		MaxTokens:   c.cfg.LLMMaxTokens,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", appErrors.WrapError(err, "marshal chat request")
	}

	url := fmt.Sprintf("%s/v1/chat/completions", strings.TrimRight(c.cfg.LLMHost, "/"))

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return "", appErrors.WrapError(err, "create chat request")
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.LLMAPIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.LLMAPIKey)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			// Do not retry on context cancellation/deadline
			if ctx.Err() != nil {
				break
			}
		} else if resp.StatusCode == http.StatusServiceUnavailable {
			// Model loading; retry with backoff
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
			c.logger.Warn("LLM service unavailable, retrying", zap.Int("attempt", attempt+1))
			c.backoffSleep(attempt)
			continue
		} else {
			break
		}
	}
	if resp == nil {
		return "", appErrors.WrapErrorf(appErrors.ErrLLMCommunication, "no response from LLM server: %v", lastErr)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.WrapError(err, "read chat response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", appErrors.WrapErrorf(appErrors.ErrLLMCommunication,
			"llm server status %s: %s", resp.Status, string(bodyBytes))
	}

	var cr chatResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return "", appErrors.WrapError(err, "decode chat response")
	}
	if len(cr.Choices) == 0 {
		return "", appErrors.WrapError(appErrors.ErrLLMCommunication, "no response choices from llm server")
	}
	return cr.Choices[0].Message.Content, nil
}

func (c *Client) backoffSleep(attempt int) {
	delay := c.cfg.RetryDelaySeconds * time.Duration(attempt+1)
	if delay <= 0 {
		delay = time.Second
	}
	time.Sleep(delay)
}
