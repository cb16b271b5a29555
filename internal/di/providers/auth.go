package providers

import (
	"github.com/samber/do/v2"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/config"
	"github.com/tastebaseapp/tastebase-server/internal/logger"
	"github.com/tastebaseapp/tastebase-server/internal/ratelimit"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideLoginLimiter provides the per-client login rate limiter.
func ProvideLoginLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	perSecond := float64(cfg.Auth.LoginRatePerMinute) / 60.0
	return ratelimit.New(perSecond, cfg.Auth.LoginRatePerMinute), nil
}
