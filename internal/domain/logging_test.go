package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStructuredLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLoggerWithWriter(&buf, "info")

	logger.LogError("tool failed", errors.New("boom"), map[string]interface{}{
		"tool":    "linear_get_issue",
		"attempt": 1,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
	}

	if entry["level"] != "ERROR" || entry["msg"] != "tool failed" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["error"] != "boom" || entry["tool"] != "linear_get_issue" || entry["attempt"] != float64(1) {
		t.Errorf("missing context in %v", entry)
	}
}

func TestStructuredLogger_Levels(t *testing.T) {
	testCases := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"d", "i", "w", "e"}},
		{"info", []string{"i", "w", "e"}},
		{"", []string{"i", "w", "e"}},
		{"warn", []string{"w", "e"}},
		{"error", []string{"e"}},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewStructuredLoggerWithWriter(&buf, tc.level)

			logger.LogDebug("d", nil)
			logger.LogInfo("i", nil)
			logger.LogWarn("w", nil)
			logger.LogError("e", nil, nil)

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				if line == "" {
					continue
				}
				var entry map[string]interface{}
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("bad log line %q: %v", line, err)
				}
				got = append(got, entry["msg"].(string))
			}

			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("logged %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStructuredLogger_StableKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLoggerWithWriter(&buf, "info")

	logger.LogInfo("ordered", map[string]interface{}{"zeta": 1, "alpha": 2, "mid": 3})

	line := buf.String()
	a, m, z := strings.Index(line, `"alpha"`), strings.Index(line, `"mid"`), strings.Index(line, `"zeta"`)
	if a < 0 || !(a < m && m < z) {
		t.Errorf("context keys not sorted: %s", line)
	}
}
