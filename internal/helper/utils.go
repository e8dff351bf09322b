package helper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// CreateFolder makes the directory and any missing parents.
func CreateFolder(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %s: %v", path, err)
	}
	return nil
}

// UploadFilename builds a collision-free name for a stored upload while
// keeping the original extension, so loaders can still sniff the type.
func UploadFilename(original string) (string, error) {
	id, err := GenerateUUID()
	if err != nil {
		return "", err
	}
	return id + filepath.Ext(original), nil
}
