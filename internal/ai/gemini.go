package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrInvalidResponseFormat means the model output could not be coerced into a
// JSON array of exactly five title strings.
var ErrInvalidResponseFormat = errors.New("invalid response format from model")

// Best-effort rescue of a JSON array buried in surrounding prose.
var jsonArrayRegex = regexp.MustCompile(`(?s)\[\s*".*?"\s*\]`)

// GeminiSuggester asks the Gemini API for job title suggestions.
type GeminiSuggester struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

var _ TitleSuggester = (*GeminiSuggester)(nil)

func NewGeminiSuggester(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSuggester, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiSuggester{
		client:    client,
		modelName: model,
		logger:    logger,
	}, nil
}

func (g *GeminiSuggester) SuggestTitles(ctx context.Context, cvText string) ([]string, error) {
	cvText = strings.TrimSpace(cvText)
	if cvText == "" {
		return nil, errors.New("cv text must not be empty")
	}

	prompt := buildPrompt(cvText)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := collectText(resp)
	if raw == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	g.logger.Debug("gemini response", zap.Int("length", len(raw)))

	titles, err := parseTitles(raw)
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// collectText concatenates the textual parts of every candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

// parseTitles turns the raw model output into the ordered title list.
func parseTitles(raw string) ([]string, error) {
	cleaned := cleanMarkdownJSON(raw)

	if !strings.HasPrefix(cleaned, "[") {
		match := jsonArrayRegex.FindString(cleaned)
		if match == "" {
			return nil, fmt.Errorf("%w: no JSON array found", ErrInvalidResponseFormat)
		}
		cleaned = match
	}

	var titles []string
	if err := json.Unmarshal([]byte(cleaned), &titles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}

	if len(titles) != SuggestedTitleCount {
		return nil, fmt.Errorf("%w: expected %d titles, got %d", ErrInvalidResponseFormat, SuggestedTitleCount, len(titles))
	}

	for i, title := range titles {
		titles[i] = strings.TrimSpace(title)
		if titles[i] == "" {
			return nil, fmt.Errorf("%w: empty title at position %d", ErrInvalidResponseFormat, i)
		}
	}

	return titles, nil
}

// cleanMarkdownJSON removes backticks and "json" prefix if the model tries to
// be helpful.
func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
