package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps images on local disk under dir and serves them below
// urlPrefix. It is used when no Cloudinary account is configured.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the root directory of the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

// UploadBase64 decodes data and writes it as <folder>/<uuid>.jpg.
func (s *LocalStore) UploadBase64(_ context.Context, data, folder string) (Asset, error) {
	raw := rawBase64(data)
	if raw == "" {
		return Asset{}, ErrEmptyImage
	}
	img, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Asset{}, fmt.Errorf("invalid base64 image: %w", err)
	}
	publicID := path.Join(folder, uuid.New().String())
	target, err := s.resolve(publicID + ".jpg")
	if err != nil {
		return Asset{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Asset{}, fmt.Errorf("failed to create folder %s: %w", folder, err)
	}
	if err := os.WriteFile(target, img, 0o644); err != nil {
		return Asset{}, fmt.Errorf("failed to write image: %w", err)
	}
	return Asset{URL: s.urlPrefix + "/" + publicID + ".jpg", PublicID: publicID}, nil
}

// SaveMultipart stores an uploaded form file under a unique name and returns
// its public URL.
func (s *LocalStore) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// Destroy removes the file behind publicID. A missing file is not an error.
func (s *LocalStore) Destroy(_ context.Context, publicID string) error {
	target, err := s.resolve(publicID + ".jpg")
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	return nil
}

// resolve maps a relative name into the store, refusing anything that
// escapes dir.
func (s *LocalStore) resolve(name string) (string, error) {
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	if !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid asset id %q", name)
	}
	return target, nil
}
