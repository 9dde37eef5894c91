package traits

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Result is the outcome of a structural check on a JSON document.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func parseObject(data []byte) (gjson.Result, Result) {
	res := Result{Valid: true}
	if !gjson.ValidBytes(data) {
		res.fail("invalid JSON")
		return gjson.Result{}, res
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		res.fail("expected a JSON object, got %s", kindOf(doc))
	}
	return doc, res
}

// ValidateTraits checks that every value in the document is an array of strings.
func ValidateTraits(data []byte) Result {
	doc, res := parseObject(data)
	if !res.Valid {
		return res
	}
	doc.ForEach(func(k, v gjson.Result) bool {
		if !v.IsArray() {
			res.fail("%q: expected an array of strings, got %s", k.String(), kindOf(v))
			return true
		}
		for i, item := range v.Array() {
			if item.Type != gjson.String {
				res.fail("%q[%d]: expected a string, got %s", k.String(), i, kindOf(item))
			}
		}
		return true
	})
	return res
}

// ValidateImageMap checks that every key is numeric and every value a string.
func ValidateImageMap(data []byte) Result {
	doc, res := parseObject(data)
	if !res.Valid {
		return res
	}
	doc.ForEach(func(k, v gjson.Result) bool {
		if !isNumericKey(k.String()) {
			res.fail("%q: key is not a number", k.String())
		}
		if v.Type != gjson.String {
			res.fail("%q: expected a string, got %s", k.String(), kindOf(v))
		}
		return true
	})
	return res
}

// isNumericKey reports whether key parses as a finite number.
func isNumericKey(key string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateSchema checks only that the document is a non-null object.
func ValidateSchema(data []byte) Result {
	_, res := parseObject(data)
	return res
}
