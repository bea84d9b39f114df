package store

import (
	"context"
	"time"
)

// ImageStore keeps recently posted images in memory so they can be re-viewed
// over HTTP until their TTL expires.
type ImageStore interface {
	// Save stores image bytes and returns a UUID identifier.
	Save(ctx context.Context, data []byte, ttl time.Duration) (string, error)
	// Get returns a copy of the image by id. The boolean indicates presence.
	Get(ctx context.Context, id string) ([]byte, bool)
	// Latest returns the most recently saved image and its id.
	Latest(ctx context.Context) ([]byte, string, bool)
	// Delete removes an image before TTL expiration.
	Delete(ctx context.Context, id string) error
}
