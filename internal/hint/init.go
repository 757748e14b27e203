package hint

import (
	"context"
	"database/sql"
	"os"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the solve/replay RPCs into a Nakama runtime: read
// signing config from the environment, install the package's
// TokenService, then register each RPC by name.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := envOrOs(env, "HINT_TOKEN_SECRET")
	issuer := envOrOs(env, "HINT_TOKEN_ISSUER")
	Init(secret, issuer)

	if err := initializer.RegisterRpc("solve", RpcSolve); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("fetch_replay", RpcFetchReplay); err != nil {
		return err
	}

	logger.Info("doudizhu hint module loaded.")
	return nil
}

func envOrOs(env map[string]string, key string) string {
	if value, ok := env[key]; ok && value != "" {
		return value
	}
	return os.Getenv(key)
}
