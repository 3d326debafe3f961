package auth

import (
	"go.uber.org/fx"

	"github.com/coffeebeans/shop/internal/config"
)

// Module provides password hashing and the token strategy.
var Module = fx.Provide(
	func() PasswordHasher { return NewBcryptHasher(0) },
	func(cfg *config.Config) Strategy {
		return NewHMACStrategy(cfg.JWTSecret, Options{})
	},
)
