package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/artifact-narrator/narrator/internal/models"
	"github.com/artifact-narrator/narrator/internal/service"
)

// MaxUploadSize bounds the image accepted from the page
const MaxUploadSize = 10 * 1024 * 1024

var errFileTooLarge = errors.New("file too large (max 10MB)")

// readSelectedFile returns the uploaded image, or nil when the form has none
func readSelectedFile(w http.ResponseWriter, r *http.Request) (*models.SelectedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1024*1024)

	file, header, err := r.FormFile(service.ImageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errFileTooLarge
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(fileData) > MaxUploadSize {
		return nil, errFileTooLarge
	}

	selected := &models.SelectedFile{
		Name: filepath.Base(header.Filename),
		Data: fileData,
	}

	if width, height, err := imageDimensions(fileData); err != nil {
		slog.Warn("Failed to get image dimensions", "filename", selected.Name, "error", err)
	} else {
		slog.Info("Image received", "filename", selected.Name, "width", width, "height", height, "bytes", len(fileData))
	}

	return selected, nil
}

func imageDimensions(data []byte) (int, int, error) {
	img, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return img.Width, img.Height, nil
}
