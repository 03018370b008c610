// Package menu extracts structured dish entries from OCR'd menu text using
// an OpenAI-compatible chat model.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/sashabaranov/go-openai"
)

// extractionPrompt instructs the model to answer with a bare JSON array.
// decodeItems still tolerates fenced or chatty responses.
const extractionPrompt = `Extract menu items, descriptions and prices from this OCR text. Return only valid JSON in the following form:
[{
    "name": "Grilled Chicken Caesar Salad",
    "keyword": "chicken caesar salad",
    "description": "null",
    "price": "$12.99"
}]
Keyword is the plain dish name used to search for an image.
Do not return anything else than valid JSON. Your response must start and end with brackets. Do not include duplicates.
Ignore any text that is not a menu item, description or price. If you cannot extract any items, return an empty array.`

// Config holds the chat model connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries uint
	Timeout    time.Duration
}

// Item is one dish extracted from menu text.
type Item struct {
	Name        string `json:"name"`
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// Parser turns free menu text into a list of dishes.
type Parser struct {
	client     *openai.Client
	model      string
	maxRetries uint
}

// NewParser creates a parser talking to an OpenAI-compatible endpoint.
func NewParser(cfg Config) *Parser {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Parser{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		maxRetries: maxRetries,
	}
}

// Parse extracts dish entries from text. The model call is retried because
// chat completions occasionally come back truncated or malformed.
func (p *Parser) Parse(ctx context.Context, text string) ([]Item, error) {
	var items []Item
	err := retry.Do(
		func() error {
			resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: p.model,
				Messages: []openai.ChatCompletionMessage{{
					Role:    openai.ChatMessageRoleUser,
					Content: extractionPrompt + "\n\n" + text,
				}},
			})
			if err != nil {
				return fmt.Errorf("chat completion failed: %w", err)
			}
			if len(resp.Choices) == 0 {
				return errors.New("chat completion returned no choices")
			}

			parsed, err := decodeItems(resp.Choices[0].Message.Content)
			if err != nil {
				return err
			}
			items = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.maxRetries),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// decodeItems extracts the JSON array from a model response and drops
// entries that are unusable: missing name or keyword, or a keyword already
// seen in the same response.
func decodeItems(content string) ([]Item, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("response contains no JSON array: %q", truncate(content, 120))
	}

	var raw []Item
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, item := range raw {
		item.Name = strings.TrimSpace(item.Name)
		item.Keyword = strings.TrimSpace(item.Keyword)
		if item.Name == "" || item.Keyword == "" {
			continue
		}
		key := strings.ToLower(item.Keyword)
		if seen[key] {
			continue
		}
		seen[key] = true
		// The model is told to emit the string "null" for missing fields.
		if item.Description == "null" {
			item.Description = ""
		}
		if item.Price == "null" {
			item.Price = ""
		}
		items = append(items, item)
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
