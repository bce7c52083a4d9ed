package models

import (
	"encoding/json"
	"testing"
)

func TestFieldsUnmarshalKeepsOrder(t *testing.T) {
	var f Fields
	input := `{"era":"Qin","artifact_name":"Terracotta Warrior","confidence":0.91,"extra":{"a":1}}`
	if err := json.Unmarshal([]byte(input), &f); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedKeys := []string{"era", "artifact_name", "confidence", "extra"}
	if len(f) != len(expectedKeys) {
		t.Fatalf("Expected %d fields, got %d", len(expectedKeys), len(f))
	}
	for i, key := range expectedKeys {
		if f[i].Key != key {
			t.Errorf("Expected key %d to be %s, got %s", i, key, f[i].Key)
		}
	}

	if _, ok := f[2].Value.(json.Number); !ok {
		t.Errorf("Expected confidence to decode as json.Number, got %T", f[2].Value)
	}
}

func TestFieldsUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "null data", input: `null`, expected: 0},
		{name: "empty object", input: `{}`, expected: 0},
		{name: "duplicate key keeps first position", input: `{"a":1,"b":2,"a":3}`, expected: 2},
		{name: "array is rejected", input: `[1,2]`, wantErr: true},
		{name: "string is rejected", input: `"x"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Fields
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for input %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(f) != tt.expected {
				t.Errorf("Expected %d fields, got %d", tt.expected, len(f))
			}
		})
	}
}

func TestFieldsDuplicateKeyTakesLastValue(t *testing.T) {
	var f Fields
	if err := json.Unmarshal([]byte(`{"a":"first","b":2,"a":"last"}`), &f); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if f[0].Key != "a" || f[0].Value != "last" {
		t.Errorf("Expected a=last at position 0, got %s=%v", f[0].Key, f[0].Value)
	}
}

func TestRecognitionResponseMissingData(t *testing.T) {
	var resp RecognitionResponse
	if err := json.Unmarshal([]byte(`{"success":false,"message":"blurry"}`), &resp); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Success || resp.Message != "blurry" || resp.Data != nil {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestNewNarrationRequest(t *testing.T) {
	tests := []struct {
		name            string
		data            string
		expectedName    string
		expectedDynasty string
	}{
		{
			name:            "maps artifact_name and era",
			data:            `{"artifact_name":"兵马俑","artifact_type":"陶俑","confidence":0.8734,"description":"d","era":"秦朝","image_path":"/tmp/x.jpg"}`,
			expectedName:    "兵马俑",
			expectedDynasty: "秦朝",
		},
		{
			name:            "missing fields become empty",
			data:            `{"artifact_type":"bronze"}`,
			expectedName:    "",
			expectedDynasty: "",
		},
		{
			name:            "non-string values are stringified",
			data:            `{"artifact_name":42,"era":null}`,
			expectedName:    "42",
			expectedDynasty: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RecognitionResult
			if err := json.Unmarshal([]byte(tt.data), &r.Fields); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			req := NewNarrationRequest(r)
			if req.Name != tt.expectedName {
				t.Errorf("Expected name=%q, got %q", tt.expectedName, req.Name)
			}
			if req.Dynasty != tt.expectedDynasty {
				t.Errorf("Expected dynasty=%q, got %q", tt.expectedDynasty, req.Dynasty)
			}

			body, err := json.Marshal(req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(decoded) != 2 {
				t.Errorf("Expected exactly 2 keys in narration request, got %v", decoded)
			}
			if _, ok := decoded["name"]; !ok {
				t.Errorf("Expected name key in %s", body)
			}
			if _, ok := decoded["dynasty"]; !ok {
				t.Errorf("Expected dynasty key in %s", body)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	var r RecognitionResult
	if err := json.Unmarshal([]byte(`{"confidence":0.5}`), &r.Fields); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c, ok := r.Confidence()
	if !ok || c != 0.5 {
		t.Errorf("Expected confidence 0.5, got %v (ok=%v)", c, ok)
	}

	if err := json.Unmarshal([]byte(`{"confidence":"high"}`), &r.Fields); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := r.Confidence(); ok {
		t.Errorf("Expected string confidence to be reported as non-numeric")
	}
}
