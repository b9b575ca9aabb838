package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// PhotoStorage persists a downloaded attachment and returns the stored
// path or URL that goes into ad_images.image_url.
type PhotoStorage interface {
	Save(ctx context.Context, originalFileName string, data []byte) (string, error)
}

// objectName builds a unique name for a stored photo, keeping the original
// extension when there is one.
func objectName(originalFileName string) string {
	ext := filepath.Ext(originalFileName)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102150405"), uuid.New().String(), ext)
}
