package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// DenylistRepo records revoked tokens in Redis.  Tokens are stateless
// JWTs, so this denylist is the only revocation mechanism: logout
// stores the token with a TTL equal to its remaining validity, after
// which the entry expires together with the token itself.  Keys are
// SHA-256 digests of the raw token string so the store never holds a
// usable credential.
type DenylistRepo struct{ rdb *redis.Client }

// NewDenylistRepo wraps a Redis client.  The client may be nil when
// Redis is unreachable; methods then report nothing revoked and
// revocations become no-ops, matching the degrade-gracefully posture
// of the rest of the stack.
func NewDenylistRepo(rdb *redis.Client) *DenylistRepo { return &DenylistRepo{rdb: rdb} }

// Enabled reports whether a backing store is present.
func (r *DenylistRepo) Enabled() bool { return r != nil && r.rdb != nil }

// Revoke denylists a raw token for the given remaining validity.
// Already-expired tokens need no entry.
func (r *DenylistRepo) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if !r.Enabled() || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, denyKey(token), "1", ttl).Err()
}

// IsRevoked reports whether a raw token has been denylisted.
func (r *DenylistRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, denyKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "denylist:" + hex.EncodeToString(sum[:])
}
