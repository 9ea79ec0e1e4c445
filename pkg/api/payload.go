package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/digitalocean/framer-hubspot/pkg/models"
)

var errNotObject = errors.New("request body must be a JSON object")

// ParseSubmission extracts the field map from a webhook body. Framer sends the
// fields at the top level; other builders wrap them in "data".
func ParseSubmission(body []byte) (models.RawSubmission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	obj, ok := root.(map[string]interface{})
	if !ok {
		return nil, errNotObject
	}
	if data, ok := obj["data"].(map[string]interface{}); ok {
		obj = data
	}

	raw := models.RawSubmission{}
	flatten(raw, "", obj)
	return raw, nil
}

// flatten visits keys in sorted order. When two keys end up with the same
// field name the first one wins, so the result never depends on map order.
func flatten(raw models.RawSubmission, prefix string, obj map[string]interface{}) {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := obj[key]
		name := strings.TrimSpace(key)
		if prefix != "" {
			name = prefix + " " + name
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flatten(raw, name, nested)
			continue
		}
		if _, taken := raw[name]; taken {
			continue
		}
		if s := stringify(value); s != "" {
			raw[name] = s
		}
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringify(item); !models.IsEmptyValue(s) {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
