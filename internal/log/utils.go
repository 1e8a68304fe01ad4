package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var Formats = []string{FormatText, FormatJSON, FormatYAML}

// TextRenderer is implemented by values that know how to print themselves
// for humans. Only TextRenderer values can be printed as text.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// PrintValue writes value to the logger's writer in the requested format.
func PrintValue(ctx context.Context, value any, format string) error {
	l := From(ctx)

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		l.Println(string(data))
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		l.Print(buf.String())
	case FormatText, "":
		r, ok := value.(TextRenderer)
		if !ok {
			return fmt.Errorf("%T cannot be printed as %s", value, FormatText)
		}
		var buf bytes.Buffer
		if err := r.RenderText(&buf); err != nil {
			return err
		}
		l.Print(buf.String())
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	return nil
}
