package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for insight generation.
const DefaultModelName = "gemini-2.5-flash"

// TextGenerator produces raw model text for a prompt. It exists so the
// service can be tested without a live model behind it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// defaultSafetySettings mirrors the content-filtering thresholds the
// product ships with. These affect only whether the model answers, never
// the response shape contract.
var defaultSafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
}

// GeminiGenerator is the Gemini-backed TextGenerator. The client is
// created per call; credentials come from the environment
// (GEMINI_API_KEY or application default credentials).
type GeminiGenerator struct {
	model  string
	safety []*genai.SafetySetting
}

// NewGeminiGenerator creates a generator for the given model name,
// falling back to DefaultModelName when empty.
func NewGeminiGenerator(model string) *GeminiGenerator {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiGenerator{
		model:  model,
		safety: defaultSafetySettings,
	}
}

// GenerateText sends the prompt to Gemini and returns the raw model text.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateText: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		SafetySettings: g.safety,
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("GenerateText: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("GenerateText: empty response from model")
	}
	return rawText, nil
}

// cleanModelJSON strips Markdown code fences and surrounding chatter from
// model output that was asked for raw JSON but came back decorated
// anyway.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost JSON object if junk surrounds it.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
