package repositories

import (
	"context"

	"github.com/sceneframes/backend/internal/models"
)

// UserRepository defines the data access contract for users. Create returns
// the stored document so callers see the assigned ObjectID.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// ChatRepository defines the data access contract for chats.
type ChatRepository interface {
	Create(ctx context.Context, req models.ChatCreationRequest) (models.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)
	AppendFrames(ctx context.Context, chatID string, frames []models.StoredFrame) error
}
