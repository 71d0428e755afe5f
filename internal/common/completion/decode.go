package completion

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"dining-search/internal/common/validation"
)

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// Decoder turns raw model output into a typed struct. The optional schema is
// checked against the generic document before the typed decode.
type Decoder struct {
	schema *validation.Schema
}

func NewDecoder(schema *validation.Schema) *Decoder {
	return &Decoder{schema: schema}
}

// Decode extracts the first JSON object from raw and unmarshals it into dst.
func (d *Decoder) Decode(raw string, dst interface{}) error {
	body := extractObject(raw)
	if body == "" {
		return fmt.Errorf("%w: no JSON object in reply", ErrMalformedOutput)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		body = trailingComma.ReplaceAllString(body, "$1")
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	}

	if d != nil && d.schema != nil {
		if err := d.schema.Validate(doc); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// extractObject strips markdown fences and returns the outermost {...} span.
func extractObject(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
