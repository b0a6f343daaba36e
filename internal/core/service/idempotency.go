package service

import "context"

// IdempotencyStore remembers which entity a client-supplied Idempotency-Key
// produced, so a retried create returns the original entity.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (id string, found bool, err error)
	Remember(ctx context.Context, scope, key, id string) error
}

// idempotencyScope keeps keys of different actors and entity kinds apart.
func idempotencyScope(kind, actorID string) string {
	return kind + ":" + actorID
}
