package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	openaiResponsesURL = "https://api.openai.com/v1/responses"
	defaultModel       = "gpt-4.1-nano"
)

// shared HTTP client for OpenAI API calls
// reuses connection pool and timeout configuration
var openaiHTTPClient = &http.Client{
	Timeout: 90 * time.Second, // per-request contexts enforce the real deadline
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for OpenAI API calls (20 requests/second with burst capacity of 5)
var openaiRateLimiter = rate.NewLimiter(20, 5)

type responsesRequest struct {
	Model string           `json:"model"`
	Input []inputMessage   `json:"input"`
	Text  textFormatConfig `json:"text"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputText `json:"content"`
}

type inputText struct {
	Type string `json:"type"` // always "input_text"
	Text string `json:"text"`
}

type textFormatConfig struct {
	Format jsonSchemaFormat `json:"format"`
}

type jsonSchemaFormat struct {
	Type   string          `json:"type"` // "json_schema"
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type responsesEnvelope struct {
	Output []struct {
		Content []struct {
			Type string          `json:"type"`
			Text string          `json:"text"`
			JSON json.RawMessage `json:"json"`
		} `json:"content"`
	} `json:"output"`
	OutputText string `json:"output_text"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// strict output contract: exactly 2 rows of exactly 2 {title, prompt} cells
var gridSchema = json.RawMessage(`{
	"type": "object",
	"required": ["grid"],
	"additionalProperties": false,
	"properties": {
		"grid": {
			"type": "array",
			"minItems": 2,
			"maxItems": 2,
			"items": {
				"type": "array",
				"minItems": 2,
				"maxItems": 2,
				"items": {
					"type": "object",
					"required": ["title", "prompt"],
					"additionalProperties": false,
					"properties": {
						"title": {"type": "string", "minLength": 1},
						"prompt": {"type": "string", "minLength": 80}
					}
				}
			}
		}
	}
}`)

type OpenAIConfig struct {
	APIKey  string
	Model   string // e.g. "gpt-4.1-nano"
	BaseURL string // overridable for tests
}

// OpenAIClient calls the OpenAI Responses API with a strict JSON schema
// output contract
type OpenAIClient struct {
	config     OpenAIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOpenAIClient(config OpenAIConfig) *OpenAIClient {
	if config.Model == "" {
		config.Model = defaultModel
	}

	if config.BaseURL == "" {
		config.BaseURL = openaiResponsesURL
	}

	return &OpenAIClient{
		config:     config,
		httpClient: openaiHTTPClient,
		limiter:    openaiRateLimiter,
	}
}

func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// requests a structured prompt grid and returns the raw payload bytes
func (c *OpenAIClient) GenerateGrid(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	reqBody := responsesRequest{
		Model: c.config.Model,
		Input: []inputMessage{
			{
				Role:    "system",
				Content: []inputText{{Type: "input_text", Text: systemPrompt}},
			},
			{
				Role:    "user",
				Content: []inputText{{Type: "input_text", Text: userPrompt}},
			},
		},
		Text: textFormatConfig{
			Format: jsonSchemaFormat{
				Type:   "json_schema",
				Name:   "prompt_grid",
				Strict: true,
				Schema: gridSchema,
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	// rate limiting
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    readUpstreamError(resp.Body),
		}
	}

	var envelope responsesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	payload := extractPayload(&envelope)
	if payload == nil {
		return nil, fmt.Errorf("upstream returned no content")
	}

	return payload, nil
}

// pulls the structured payload out of the responses envelope: prefer an
// output_json part, fall back to joined output_text chunks, then the
// top-level output_text field
func extractPayload(envelope *responsesEnvelope) json.RawMessage {
	var textChunks []string

	for _, message := range envelope.Output {
		for _, part := range message.Content {
			if part.Type == "output_json" && len(part.JSON) > 0 {
				return part.JSON
			}

			if (part.Type == "output_text" || part.Type == "summary_text") && part.Text != "" {
				textChunks = append(textChunks, part.Text)
			}
		}
	}

	if len(textChunks) > 0 {
		text := strings.TrimSpace(strings.Join(textChunks, " "))
		if text != "" {
			return json.RawMessage(text)
		}
	}

	if text := strings.TrimSpace(envelope.OutputText); text != "" {
		return json.RawMessage(text)
	}

	return nil
}

// extracts a usable message from a non-success response body
func readUpstreamError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}

		if parsed.Message != "" {
			return parsed.Message
		}
	}

	return strings.TrimSpace(string(raw))
}
