package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Well-known keys of a recognition result.
const (
	KeyArtifactName = "artifact_name"
	KeyArtifactType = "artifact_type"
	KeyConfidence   = "confidence"
	KeyDescription  = "description"
	KeyEra          = "era"
	KeyImagePath    = "image_path"
)

// SelectedFile is the image picked by the user for one submit action
type SelectedFile struct {
	Name string
	Data []byte
}

// Field is one key/value pair of a JSON object, kept in document order
type Field struct {
	Key   string
	Value any
}

// Fields is a JSON object decoded with its key order preserved.
// Numbers are decoded as json.Number.
type Fields []Field

// UnmarshalJSON decodes a JSON object (or null) into ordered fields.
// A repeated key keeps its first position and its last value.
func (f *Fields) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	out := Fields{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode field %q: %w", key, err)
		}

		if i, seen := index[key]; seen {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}

// Get returns the value stored under key
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// RecognitionResult is the data returned by the recognition endpoint.
// Fields the client does not know about are kept so they can be displayed.
type RecognitionResult struct {
	Fields Fields
}

func (r RecognitionResult) str(key string) string {
	v, ok := r.Fields.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (r RecognitionResult) ArtifactName() string { return r.str(KeyArtifactName) }
func (r RecognitionResult) ArtifactType() string { return r.str(KeyArtifactType) }
func (r RecognitionResult) Description() string  { return r.str(KeyDescription) }
func (r RecognitionResult) Era() string          { return r.str(KeyEra) }
func (r RecognitionResult) ImagePath() string    { return r.str(KeyImagePath) }

// Confidence returns the confidence score when the server sent a number
func (r RecognitionResult) Confidence() (float64, bool) {
	v, ok := r.Fields.Get(KeyConfidence)
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

// AsNumber reports whether v is a JSON number and returns its value
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// RecognitionResponse is the envelope of POST /api/image-recognition
type RecognitionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Fields `json:"data"`
}

// NarrationRequest is the body of POST /api/artifact-narration.
// The narration service names the era "dynasty".
type NarrationRequest struct {
	Name    string `json:"name"`
	Dynasty string `json:"dynasty"`
}

// NewNarrationRequest maps a recognition result onto the narration contract
func NewNarrationRequest(r RecognitionResult) NarrationRequest {
	return NarrationRequest{
		Name:    r.ArtifactName(),
		Dynasty: r.Era(),
	}
}

// NarrationResult is the data returned by the narration endpoint
type NarrationResult struct {
	Narration string `json:"narration"`
}

// NarrationResponse is the envelope of POST /api/artifact-narration
type NarrationResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    NarrationResult `json:"data"`
}
