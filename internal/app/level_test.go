package app

import (
	"context"
	"log/slog"
)

type slogLevelCheck struct {
	debug bool
	info  bool
	warn  bool
}

func checkLevels(logger *slog.Logger) slogLevelCheck {
	ctx := context.Background()
	return slogLevelCheck{
		debug: logger.Enabled(ctx, slog.LevelDebug),
		info:  logger.Enabled(ctx, slog.LevelInfo),
		warn:  logger.Enabled(ctx, slog.LevelWarn),
	}
}
