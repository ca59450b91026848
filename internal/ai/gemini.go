package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxKeywords bounds how many searches one interpretation can trigger.
const maxKeywords = 5

// GeminiInterpreter implements QueryInterpreter using Google's Gemini models.
type GeminiInterpreter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiInterpreter initializes a new Gemini client.
func NewGeminiInterpreter(ctx context.Context, apiKey string) (*GeminiInterpreter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	// Low temperature: we want the same keywords for the same query.
	model.SetTemperature(0.1)

	return &GeminiInterpreter{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiInterpreter) Close() {
	g.client.Close()
}

func (g *GeminiInterpreter) InterpretQuery(ctx context.Context, query string, categories []string) (*Interpretation, error) {
	prompt := buildPrompt(query, categories)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return parseInterpretation(text.String(), categories)
}

// parseInterpretation decodes the model output and drops anything outside
// the allowed vocabulary.
func parseInterpretation(raw string, categories []string) (*Interpretation, error) {
	cleaned := cleanJSONString(raw)

	var result Interpretation
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleaned)
	}

	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	if !slices.Contains(categories, result.Category) {
		result.Category = ""
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		k = strings.TrimSpace(k)
		if k == "" || slices.Contains(keywords, k) {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == maxKeywords {
			break
		}
	}
	result.Keywords = keywords
	return &result, nil
}

func buildPrompt(query string, categories []string) string {
	return fmt.Sprintf(`Role: You help students find places on the University of Ghana, Legon campus.
A plain text search over location names and descriptions found nothing for the user's query.
Rewrite the query into short search keywords (1-3 words each, English) that are likely to
appear in the name or description of a campus building, hall, office or facility.

Allowed categories: %s
Pick a category only if the query clearly targets one; otherwise leave it empty.

Output JSON Schema:
{
  "keywords": ["string"],
  "category": "one of the allowed categories or empty string"
}

User Query: %s
`, strings.Join(categories, ", "), query)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
