package main

import (
	"context"
	"database/sql"

	"doudizhu/internal/hint"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule proxies Nakama initialization to the hint adapter package.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return hint.InitModule(ctx, logger, db, nk, initializer)
}
