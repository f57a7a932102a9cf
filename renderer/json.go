package renderer

import (
	"encoding/json"
	"io"

	"github.com/clrscope/clrscope/inspect"
)

// JSONRenderer renders reports in JSON format.
type JSONRenderer struct{}

func NewJSONRenderer() Renderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(reports []*inspect.Report, output io.Writer) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func (r *JSONRenderer) Format() string {
	return "json"
}
