package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yamato-denko/koutei/pkg/constants"
)

// UseLogger returns the request-scoped logger from the context.
// Panics when no logger middleware ran; that is a wiring bug, not a runtime condition.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic("logger not found")
	}
	return logger.(*logrus.Entry)
}

// TryUseLogger is the non-panicking variant for background goroutines.
func TryUseLogger(ctx context.Context) (*logrus.Entry, bool) {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	return logger, ok
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}
