package logging

import "context"

type contextKey int

const (
	traceIDKey contextKey = iota
	originKey
)

// ContextWithTraceID はトレースIDをコンテキストに格納する。
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext はコンテキストからトレースIDを取り出す。未設定なら空文字列。
func TraceIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

// ContextWithOrigin はストレージオリジンをコンテキストに格納する。
func ContextWithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromContext はコンテキストからストレージオリジンを取り出す。未設定なら空文字列。
func OriginFromContext(ctx context.Context) string {
	v, _ := ctx.Value(originKey).(string)
	return v
}

// ContextAttrs はコンテキスト由来のログ属性を返す。
func ContextAttrs(ctx context.Context) []any {
	var attrs []any
	if id := TraceIDFromContext(ctx); id != "" {
		attrs = append(attrs, WithTraceID(id))
	}
	if origin := OriginFromContext(ctx); origin != "" {
		attrs = append(attrs, WithOrigin(origin))
	}
	return attrs
}
