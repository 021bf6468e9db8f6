// Package sanitize cleans untrusted request input.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"
)

var ErrOperatorKey = errors.New("request body contains a forbidden key")

// CheckKeys walks a JSON document and rejects any object key that starts with "$" or
// contains ".", the shapes used for query operator injection against document stores.
func CheckKeys(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	return checkValue(doc)
}

func checkValue(v any) error {
	switch t := v.(type) {
	case map[string]any:
		for key, child := range t {
			if strings.HasPrefix(key, "$") || strings.Contains(key, ".") {
				return fmt.Errorf("%w: %q", ErrOperatorKey, key)
			}
			if err := checkValue(child); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range t {
			if err := checkValue(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// Text trims s and drops control characters.
func Text(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

// Markup is Text with HTML special characters escaped, for values that are echoed back to browsers.
func Markup(s string) string {
	return html.EscapeString(Text(s))
}
