package auth

import (
	"context"
)

type contextKey string

var callerKey contextKey = "caller"
var requestIDKey contextKey = "request_id"
var accessTokenKey contextKey = "access_token"

func SetCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the anonymous caller when none was attached.
func CallerFrom(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey).(Caller); ok {
		return c
	}
	return Caller{}
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SetAccessToken keeps the raw bearer token around so sign out can revoke it.
func SetAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessToken(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}
