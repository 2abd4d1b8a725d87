// Package insights formats raw CSV text into text-generation requests and
// validates the structured responses. The two operations are advisory
// enrichments: they run independently, may fail independently, and never
// block parsing or aggregation.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// SuggestedRangeCount is how many analysis windows the model is asked
// for.
const SuggestedRangeCount = 3

// Service issues insight requests against a TextGenerator.
type Service struct {
	gen TextGenerator
	log zerolog.Logger
}

// NewService creates an insight service. gen is typically a
// *GeminiGenerator; tests substitute their own.
func NewService(gen TextGenerator, log zerolog.Logger) *Service {
	return &Service{gen: gen, log: log}
}

// DescribeVisualizations asks the model for a single paragraph describing
// chart-worthy patterns in the CSV data. A call failure or a response
// that is not an object with a string "visualizationDescriptions" field
// yields an *AdapterError.
func (s *Service) DescribeVisualizations(ctx context.Context, csvData string) (*VisualizationInsight, error) {
	const op = "describe_visualizations"

	obj, err := s.requestJSON(ctx, op, buildVisualizationsPrompt(csvData))
	if err != nil {
		return nil, err
	}

	descriptions, err := getStringField(obj, "visualizationDescriptions")
	if err != nil {
		return nil, &AdapterError{Op: op, Err: err}
	}

	return &VisualizationInsight{Descriptions: descriptions}, nil
}

// SuggestDateRanges asks the model for candidate analysis windows, each
// with a start date, end date and rationale. A call failure or a
// response whose "dateRanges" field is not an array of such objects
// yields an *AdapterError.
func (s *Service) SuggestDateRanges(ctx context.Context, csvData string) ([]DateRange, error) {
	const op = "suggest_date_ranges"

	obj, err := s.requestJSON(ctx, op, buildDateRangesPrompt(csvData, SuggestedRangeCount))
	if err != nil {
		return nil, err
	}

	arr, err := getArrayField(obj, "dateRanges")
	if err != nil {
		return nil, &AdapterError{Op: op, Err: err}
	}

	ranges, err := validateDateRanges(arr)
	if err != nil {
		return nil, &AdapterError{Op: op, Err: err}
	}
	return ranges, nil
}

// Generate runs both insight requests concurrently and waits for both.
// Each half of the returned Bundle resolves on its own: a failure of one
// call never suppresses the result of the other.
func (s *Service) Generate(ctx context.Context, csvData string) Bundle {
	var (
		bundle Bundle
		wg     sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bundle.Visualizations, bundle.VisualizationsErr = s.DescribeVisualizations(ctx, csvData)
	}()
	go func() {
		defer wg.Done()
		bundle.DateRanges, bundle.DateRangesErr = s.SuggestDateRanges(ctx, csvData)
	}()
	wg.Wait()

	if bundle.VisualizationsErr != nil {
		s.log.Warn().Err(bundle.VisualizationsErr).Msg("Visualization insight failed")
	}
	if bundle.DateRangesErr != nil {
		s.log.Warn().Err(bundle.DateRangesErr).Msg("Date range suggestion failed")
	}

	return bundle
}

// requestJSON sends a prompt, cleans the raw model text and decodes it as
// a JSON object.
func (s *Service) requestJSON(ctx context.Context, op, prompt string) (map[string]interface{}, error) {
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, &AdapterError{Op: op, Err: err}
	}

	clean := cleanModelJSON(raw)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return nil, &AdapterError{Op: op, Err: fmt.Errorf("response is not a JSON object: %w", err)}
	}
	return obj, nil
}
