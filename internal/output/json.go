package output

import (
	"encoding/json"
	"io"
)

type jsonValue struct {
	Source string `json:"source,omitempty"`
	Key    string `json:"key,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Length int    `json:"length"`
	Hex    string `json:"hex"`
	Digest string `json:"digest"`
}

type jsonFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// writeJSON writes v as one line of JSON.
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
