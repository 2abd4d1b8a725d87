package insights

import (
	"fmt"
	"strings"
)

// Shape validation over the generic JSON the model returns. Any mismatch
// is reported with the offending field and type so malformed responses
// are debuggable from the logs.

func getStringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

func getArrayField(m map[string]interface{}, key string) ([]interface{}, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing required field %q", key)
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q has type %T, want array", key, v)
	}
	return arr, nil
}

// validateDateRanges shapes a decoded "dateRanges" array into DateRange
// values, rejecting any element that is not an object with the three
// required string fields.
func validateDateRanges(arr []interface{}) ([]DateRange, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("dateRanges array is empty")
	}

	ranges := make([]DateRange, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("dateRanges[%d] has type %T, want object", i, item)
		}

		start, err := getStringField(obj, "startDate")
		if err != nil {
			return nil, fmt.Errorf("dateRanges[%d]: %w", i, err)
		}
		end, err := getStringField(obj, "endDate")
		if err != nil {
			return nil, fmt.Errorf("dateRanges[%d]: %w", i, err)
		}
		reason, err := getStringField(obj, "reason")
		if err != nil {
			return nil, fmt.Errorf("dateRanges[%d]: %w", i, err)
		}

		ranges = append(ranges, DateRange{StartDate: start, EndDate: end, Reason: reason})
	}

	return ranges, nil
}
