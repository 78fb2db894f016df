package providers

import (
	"github.com/samber/do/v2"

	"github.com/lampstandapp/lampstand-server/internal/auth"
	"github.com/lampstandapp/lampstand-server/internal/config"
	"github.com/lampstandapp/lampstand-server/internal/logger"
)

// ProvideTokenService provides the PASETO session token service backed
// by a key persisted in the data directory.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(key, cfg.Pairing.TokenDuration)
	if err != nil {
		return nil, err
	}

	log.Info("Token service initialized", "session_duration", cfg.Pairing.TokenDuration)

	return tokens, nil
}

// PairerHandle carries the pairer, which is nil when pairing is
// disabled. A nil pairer removes the auth middleware and pairing
// routes entirely, for loopback-only deployments.
type PairerHandle struct {
	*auth.Pairer
}

// ProvidePairer provides the companion device pairer.
func ProvidePairer(i do.Injector) (*PairerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Pairing.Enabled {
		log.Info("Companion pairing disabled")
		return &PairerHandle{}, nil
	}

	tokens := do.MustInvoke[*auth.TokenService](i)
	settingsHandle := do.MustInvoke[*SettingsHandle](i)

	return &PairerHandle{
		Pairer: auth.NewPairer(settingsHandle.Store, tokens, log.Logger),
	}, nil
}
