package audio

import "context"

// ObjectStore holds raw audio payloads keyed by derived identifiers of the
// form "audio_<messageId>". Messages reference keys, never bytes.
type ObjectStore interface {
	Put(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context, keys []string) error
	Close() error
}
