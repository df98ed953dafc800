package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/stylo/stat"
)

// JSONRenderer writes statistics as JSON to a writer.
type JSONRenderer struct {
	W io.Writer

	Indent bool
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Stats serializes st as a JSON object.
func (r *JSONRenderer) Stats(st stat.Stats) error {
	enc := json.NewEncoder(r.W)
	enc.SetEscapeHTML(false)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(st)
}
