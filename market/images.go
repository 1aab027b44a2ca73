package market

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/mcmanyika/Musika/storage"
)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// storeProductImage uploads an inline image and returns its URL. Listing a
// yield never fails because of storage: on any upload error the raw payload
// is kept as the image value.
func (s *Service) storeProductImage(ctx context.Context, owner, payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" || isURL(payload) {
		return payload
	}

	url, err := s.uploadImage(ctx, BucketProductImages, "productImage", payload, func(ext string) string {
		return owner + "/" + uuid.NewString() + ext
	})
	if err != nil {
		log.Warnf("Product image upload failed for %s, keeping inline payload: %v", owner, err)
		return payload
	}
	return url
}

// uploadImage stores an inline image. A payload that is not an image is a
// ValidationError on field; storage failures come back unwrapped.
func (s *Service) uploadImage(ctx context.Context, bucket, field, payload string, name func(ext string) string) (string, error) {
	data, contentType, err := storage.DecodePayload(payload)
	if err != nil {
		return "", invalid(field, "%v", err)
	}
	if !storage.IsImage(contentType) {
		return "", invalid(field, "unsupported content type %s", contentType)
	}
	if s.uploader == nil {
		return "", errors.New("object storage not configured")
	}
	return s.uploader.Upload(ctx, bucket, name(storage.Extension(contentType)), data, contentType)
}
