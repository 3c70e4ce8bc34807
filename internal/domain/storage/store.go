package storage

import (
	"context"
	"io"
)

// Store holds proof-of-payment and KYC documents. The engine never inspects
// document contents; it only keeps the returned ref.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (ref string, err error)
}
