package logger

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// WithRequestID はリクエスト ID をコンテキストに追加します。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID はコンテキストのリクエスト ID を返します。無ければ空文字です。
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// GenerateRequestID は新しいリクエスト ID を生成します。
func GenerateRequestID() string {
	return uuid.NewString()
}
