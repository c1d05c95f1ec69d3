package utils

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("empty file")

// SaveBase64File decodes a plain or data-URL base64 payload into folder under a random
// name and returns the file name.
func SaveBase64File(b64, folder string) (string, error) {
	if i := strings.Index(b64, ";base64,"); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	filename := uuid.NewString() + mimetype.Detect(data).Extension()
	if err := os.WriteFile(filepath.Join(folder, filename), data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}
