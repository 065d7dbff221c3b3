package inventory

import (
	"bytes"
	"encoding/json"
)

// Page is a list response. The backend paginates lists as
// {count, next, previous, results}; some deployments return a bare array,
// which decodes into a single page whose Count is the array length.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []T     `json:"results"`
}

type pageEnvelope[T any] Page[T]

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return err
		}
		*p = Page[T]{Count: len(results), Results: results}
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	if p.Count == 0 && p.Next == nil && len(p.Results) > 0 {
		p.Count = len(p.Results)
	}
	return nil
}

// HasMore reports whether the backend has another page
func (p *Page[T]) HasMore() bool {
	return p.Next != nil && *p.Next != ""
}
