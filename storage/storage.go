// Package storage keeps uploaded files on local disk and serves them under a
// public base URL.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidPath = errors.New("invalid object path")

type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

// Upload writes data to bucket/name, replacing any existing object, and
// returns its public URL.
func (l *Local) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := objectKey(bucket, name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}

	target := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return l.baseURL + "/" + key, nil
}

func objectKey(bucket, name string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) {
		return "", ErrInvalidPath
	}
	clean := path.Clean("/" + name)
	if name == "" || strings.HasPrefix(name, "/") || clean != "/"+name {
		return "", ErrInvalidPath
	}
	return bucket + clean, nil
}

// DecodePayload accepts a data URL or bare base64 and returns the bytes with
// their sniffed content type.
func DecodePayload(payload string) ([]byte, string, error) {
	encoded := strings.TrimSpace(payload)
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.IndexByte(encoded, ',')
		if comma < 0 {
			return nil, "", errors.New("malformed data URL")
		}
		if !strings.HasSuffix(encoded[:comma], ";base64") {
			return nil, "", errors.New("data URL is not base64 encoded")
		}
		encoded = encoded[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty payload")
	}
	return data, mimetype.Detect(data).String(), nil
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Extension returns the file extension (with dot) for a content type.
func Extension(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}
