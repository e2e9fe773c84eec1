// Package aggregate holds the parse-on-read, fallback-to-raw-string
// helpers shared by the workflow reconciler and the report generation
// job (spec §9 "Parse-on-read with fallback-to-raw-string is the
// universal rule").
package aggregate

import "encoding/json"

// ParseOrRaw attempts to deserialize raw as JSON; on failure it returns
// the raw string unchanged.
func ParseOrRaw(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// ExtractError inspects a failed task's Output for a structured error
// envelope. If Output deserializes to an object carrying a "message" or
// "error" string field, that field's value is returned as the error
// message. Otherwise the message is "Task failed" and the raw output (if
// any) is returned alongside so callers can preserve it.
func ExtractError(output *string) (message string, rawOutput *string) {
	if output == nil {
		return "Task failed", nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(*output), &v); err == nil {
		if m, ok := v.(map[string]interface{}); ok {
			if msg, ok := m["message"].(string); ok && msg != "" {
				return msg, nil
			}
			if msg, ok := m["error"].(string); ok && msg != "" {
				return msg, nil
			}
		}
	}
	return "Task failed", output
}
