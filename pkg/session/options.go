package session

import "time"

// options はRepository共通の設定。
type options struct {
	ttl time.Duration
	now func() time.Time
}

// Option はRepositoryの設定を変更する。
type Option func(*options)

// WithTTL はセッションの有効期間を設定する。
// 0以下は無期限（明示的なログアウトまで有効）。
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl < 0 {
			ttl = 0
		}
		o.ttl = ttl
	}
}

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
