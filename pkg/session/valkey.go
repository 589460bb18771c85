package session

import (
	"context"
	"errors"

	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

// valkeyRepository はValkey上のRepository実装。
// キー: portal:{origin}:role（String型、値はロール識別子）
type valkeyRepository struct {
	client *redis.Client
	key    string
	opts   options
}

// NewValkeyRepository はoriginのセッションスロットを扱うRepositoryを生成する。
func NewValkeyRepository(client *redis.Client, origin string, opts ...Option) Repository {
	return &valkeyRepository{
		client: client,
		key:    valkey.RoleKey(origin),
		opts:   buildOptions(opts),
	}
}

// Get はGETとPTTLを1往復で取得する。
func (r *valkeyRepository) Get(ctx context.Context) (*model.Session, error) {
	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, r.key)
	ttlCmd := pipe.PTTL(ctx, r.key)
	if _, err := pipe.Exec(ctx); err != nil && !valkey.IsKeyNotFound(err) {
		return nil, apperr.NewValkeyError("GET", r.key, err)
	}

	val, err := getCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, apperr.NewValkeyError("GET", r.key, err)
	}

	sess := model.NewSession(model.Role(val))
	// PTTLは無期限で-1、キーなしで-2を返す
	if ttl, err := ttlCmd.Result(); err == nil && ttl > 0 {
		sess.ExpiresAt = r.opts.now().Add(ttl)
	}
	return sess, nil
}

// Set はロールを書き込む。TTL未設定時は既存の有効期限も解除される。
func (r *valkeyRepository) Set(ctx context.Context, role model.Role) error {
	if err := r.client.Set(ctx, r.key, string(role), r.opts.ttl).Err(); err != nil {
		return apperr.NewValkeyError("SET", r.key, err)
	}
	return nil
}

// Clear はスロットを削除する。存在しなくてもエラーにしない。
func (r *valkeyRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return apperr.NewValkeyError("DEL", r.key, err)
	}
	return nil
}
