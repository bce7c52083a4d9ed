package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/artifact-narrator/narrator/internal/models"
)

const (
	RecognitionPath = "/api/image-recognition"
	NarrationPath   = "/api/artifact-narration"

	// ImageField is the multipart field the recognition service reads
	ImageField = "image"

	maxErrorBody = 4096
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Client talks to the recognition and narration services behind one base URL
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a new service client. A zero timeout disables it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// Recognize uploads the image and returns the recognized artifact
func (c *Client) Recognize(ctx context.Context, file models.SelectedFile) (*models.RecognitionResult, error) {
	body, contentType, err := multipartImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	url := c.endpoint(RecognitionPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	slog.Debug("Sending recognition request", "url", url, "filename", file.Name, "bytes", len(file.Data))

	var envelope models.RecognitionResponse
	if err := c.do(req, OpRecognition, &envelope); err != nil {
		return nil, err
	}

	if !envelope.Success {
		return nil, &LogicalError{Op: OpRecognition, Message: envelope.Message}
	}
	if envelope.Data == nil {
		slog.Warn("Recognition succeeded without data")
		return nil, &LogicalError{Op: OpRecognition}
	}

	slog.Debug("Recognition succeeded", "fields", len(envelope.Data))
	return &models.RecognitionResult{Fields: envelope.Data}, nil
}

// Narrate asks the narration service to describe an artifact
func (c *Client) Narrate(ctx context.Context, request models.NarrationRequest) (*models.NarrationResult, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal narration request: %w", err)
	}

	url := c.endpoint(NarrationPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create narration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("Sending narration request", "url", url, "name", request.Name, "dynasty", request.Dynasty)

	var envelope models.NarrationResponse
	if err := c.do(req, OpNarration, &envelope); err != nil {
		return nil, err
	}

	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = envelope.Message
		}
		return nil, &LogicalError{Op: OpNarration, Message: message}
	}

	slog.Debug("Narration succeeded", "length", len(envelope.Data.Narration))
	return &envelope.Data, nil
}

func (c *Client) do(req *http.Request, op Op, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Warn("Backend returned non-2xx status", "op", op, "status", resp.StatusCode, "body", string(body))
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func multipartImage(file models.SelectedFile) (io.Reader, string, error) {
	filename := file.Name
	if filename == "" {
		filename = "image"
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		ImageField, quoteEscaper.Replace(filepath.Base(filename))))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
