// Package model defines the catalog entities rendered by the application.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an upstream identifier. The catalog API emits either JSON numbers or
// strings depending on the backend, so both are accepted.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Library identifies a physical or organizational library.
type Library struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Path returns the book list path for the library.
func (l Library) Path() string {
	return "/libraries/" + l.Slug
}
