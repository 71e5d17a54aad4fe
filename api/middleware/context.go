package middleware

import (
	"context"

	"github.com/fireplay/fireplay-backend/internal/identity"
)

type contextKey string

const (
	ctxDeviceID contextKey = "device_id"
	ctxIdentity contextKey = "identity"
)

// DeviceIDFromContext returns the device cookie value set by DeviceCookie.
func DeviceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxDeviceID).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext returns the caller identity, anonymous when none was resolved.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if ctx == nil {
		return identity.Anonymous()
	}
	if v, ok := ctx.Value(ctxIdentity).(identity.Identity); ok {
		return v
	}
	return identity.Anonymous()
}

func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxDeviceID, deviceID)
}

func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}
