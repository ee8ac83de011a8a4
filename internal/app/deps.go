package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sceneframes/backend/internal/auth"
	"github.com/sceneframes/backend/internal/chats"
	"github.com/sceneframes/backend/internal/config"
	"github.com/sceneframes/backend/internal/db"
	"github.com/sceneframes/backend/internal/repositories"
	"github.com/sceneframes/backend/internal/storage"
	"github.com/sceneframes/backend/internal/token"
)

// Dependencies groups the services handed to an embedding application layer.
type Dependencies struct {
	Auth  *auth.Service
	Chats *chats.Service
	Users repositories.UserRepository
}

// buildDependencies wires together concrete implementations on top of the
// connection manager. Constructing the token issuer here is what surfaces a
// missing JWT_SECRET at startup instead of at first issuance.
func buildDependencies(ctx context.Context, provider db.CollectionProvider, cfg config.Config) (Dependencies, error) {
	issuer, err := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return Dependencies{}, fmt.Errorf("configure token issuer: %w", err)
	}

	users := repositories.NewMongoUserRepository(provider)
	chatRepo := repositories.NewMongoChatRepository(provider)

	var frameStore chats.FrameStorage
	if cfg.FrameStore.Bucket != "" {
		fs, err := storage.NewFrameStore(ctx, cfg.FrameStore)
		if err != nil {
			return Dependencies{}, err
		}
		frameStore = fs
	}

	return Dependencies{
		Auth: &auth.Service{
			Users:       users,
			Credentials: auth.NewCredentials(),
			Tokens:      issuer,
			Throttle:    auth.NewThrottle(cfg.LoginRateLimit, time.Minute, cfg.LoginRateBurst, 5*time.Minute),
		},
		Chats: &chats.Service{
			Chats:   chatRepo,
			Storage: frameStore,
		},
		Users: users,
	}, nil
}
