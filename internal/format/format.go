package format

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/artifact-narrator/narrator/internal/locale"
	"github.com/artifact-narrator/narrator/internal/models"
)

// Entry is one labeled line of the artifact details list
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Details is the rendered recognition result. Exactly one of Entries and
// Placeholder is set.
type Details struct {
	Entries     []Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
	Placeholder string  `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Empty reports whether nothing has been rendered yet
func (d Details) Empty() bool {
	return len(d.Entries) == 0 && d.Placeholder == ""
}

// Artifact renders a recognition result as labeled key/value pairs.
// image_path is internal to the recognition service and never shown.
func Artifact(r models.RecognitionResult, cat locale.Catalog) Details {
	var entries []Entry
	for _, field := range r.Fields {
		if field.Key == models.KeyImagePath {
			continue
		}
		entries = append(entries, Entry{
			Key:   field.Key,
			Label: cat.Label(field.Key),
			Value: Value(field.Key, field.Value),
		})
	}

	if len(entries) == 0 {
		return Details{Placeholder: cat.NoArtifactInfo}
	}
	return Details{Entries: entries}
}

// Value renders a single field value. A numeric confidence becomes a
// percentage with two decimals.
func Value(key string, v any) string {
	if key == models.KeyConfidence {
		if n, ok := models.AsNumber(v); ok {
			return Percent(n)
		}
	}
	return Raw(v)
}

// Percent formats a [0,1] ratio, e.g. 0.8734 -> "87.34%"
func Percent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 2, 64) + "%"
}

// Raw renders a decoded JSON value as display text
func Raw(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
