// Package imagestore uploads and deletes remote image assets.
package imagestore

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyImage is returned when there is nothing to upload.
var ErrEmptyImage = errors.New("image data is empty")

// Asset is an uploaded image.
type Asset struct {
	URL      string
	PublicID string
}

// Uploader stores base64 encoded images under a folder.
type Uploader interface {
	UploadBase64(ctx context.Context, data, folder string) (Asset, error)
}

// Destroyer deletes a previously uploaded asset by its public id.
type Destroyer interface {
	Destroy(ctx context.Context, publicID string) error
}

// Store is both an Uploader and a Destroyer.
type Store interface {
	Uploader
	Destroyer
}

// dataURI turns raw base64 into a JPEG data URI. Values already carrying a
// data: prefix are returned unchanged.
func dataURI(data string) string {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		return data
	}
	return "data:image/jpeg;base64," + data
}

// rawBase64 strips an optional data URI header.
func rawBase64(data string) string {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ","); i >= 0 {
			return data[i+1:]
		}
	}
	return data
}
