package application

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"linear-mcp-server/internal/domain"
)

// hasParam reports whether an argument is present. Only a missing key or
// an explicit null counts as absent; "", 0, false and [] are present.
func hasParam(args map[string]interface{}, name string) bool {
	value, exists := args[name]
	return exists && value != nil
}

// requireParams checks presence of every named argument and reports all
// missing names at once.
func requireParams(args map[string]interface{}, names ...string) error {
	var missing []string
	for _, name := range names {
		if !hasParam(args, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldsError(missing...)
	}
	return nil
}

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	if !hasParam(args, name) {
		if required {
			return "", domain.NewMissingFieldsError(name)
		}
		return "", nil
	}

	strValue, ok := args[name].(string)
	if !ok {
		return "", domain.NewInvalidFieldError(name, "parameter %s must be a string", name)
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// A parameter that is present but not a whole number is an error even
// when it is optional.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	if !hasParam(args, name) {
		if required {
			return 0, domain.NewMissingFieldsError(name)
		}
		return 0, nil
	}

	n, err := coerceNumber(args[name])
	if err != nil || n != math.Trunc(n) {
		return 0, domain.NewInvalidFieldError(name, "parameter %s must be an integer", name)
	}
	return int(n), nil
}

// getNumberParam extracts a numeric parameter, accepting numeric strings.
// The boolean result reports presence.
func getNumberParam(args map[string]interface{}, name string) (float64, bool, error) {
	if !hasParam(args, name) {
		return 0, false, nil
	}
	n, err := coerceNumber(args[name])
	if err != nil {
		return 0, true, domain.NewInvalidFieldError(name, "parameter %s must be a number, got %v", name, args[name])
	}
	return n, true, nil
}

// getStringSliceParam extracts an array of strings. The boolean result
// reports presence; an empty array is present.
func getStringSliceParam(args map[string]interface{}, name string) ([]string, bool, error) {
	if !hasParam(args, name) {
		return nil, false, nil
	}

	switch v := args[name].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, true, domain.NewInvalidFieldError(name, "parameter %s[%d] must be a string", name, i)
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, true, domain.NewInvalidFieldError(name, "parameter %s must be an array", name)
	}
}

// getObjectParam extracts a nested object. The boolean result reports
// presence.
func getObjectParam(args map[string]interface{}, name string) (map[string]interface{}, bool, error) {
	if !hasParam(args, name) {
		return nil, false, nil
	}
	obj, ok := args[name].(map[string]interface{})
	if !ok {
		return nil, true, domain.NewInvalidFieldError(name, "parameter %s must be an object", name)
	}
	return obj, true, nil
}

// getArrayParam extracts a raw array. The boolean result reports presence.
func getArrayParam(args map[string]interface{}, name string) ([]interface{}, bool, error) {
	if !hasParam(args, name) {
		return nil, false, nil
	}
	switch v := args[name].(type) {
	case []interface{}:
		return v, true, nil
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true, nil
	default:
		return nil, true, domain.NewInvalidFieldError(name, "parameter %s must be an array", name)
	}
}

// coerceNumber converts JSON numbers and numeric strings to float64.
// Some MCP clients deliver numbers as strings.
func coerceNumber(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, strconv.ErrSyntax
		}
		return n, nil
	default:
		return 0, strconv.ErrSyntax
	}
}
