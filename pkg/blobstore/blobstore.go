package blobstore

import "context"

// Store is an opaque named-blob persistence backend. Load reports a missing
// blob with ok=false rather than an error so callers can fall back to typed
// defaults; Save overwrites the full blob (last writer wins, no versioning).
type Store interface {
	Load(ctx context.Context, name string) (data []byte, ok bool, err error)
	Save(ctx context.Context, name string, data []byte) error
}
