package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sceneframes/backend/internal/db"
	"github.com/sceneframes/backend/internal/models"
)

// listChatsLimit caps how many chats a single listing returns.
const listChatsLimit = 100

// MongoUserRepository provides MongoDB-backed persistence for users in the
// Personal collection.
type MongoUserRepository struct {
	provider db.CollectionProvider
}

// NewMongoUserRepository constructs a user repository backed by MongoDB.
func NewMongoUserRepository(provider db.CollectionProvider) *MongoUserRepository {
	return &MongoUserRepository{provider: provider}
}

// Create persists a new user document and returns it with the assigned ID.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	coll, err := r.provider.Collection(db.UsersCollectionName)
	if err != nil {
		return models.User{}, fmt.Errorf("users collection: %w", err)
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindByEmail fetches a user by their email address.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	coll, err := r.provider.Collection(db.UsersCollectionName)
	if err != nil {
		return models.User{}, fmt.Errorf("users collection: %w", err)
	}

	var user models.User
	if err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

// MongoChatRepository provides MongoDB-backed persistence for chats.
type MongoChatRepository struct {
	provider db.CollectionProvider

	// NowFunc allows tests to pin the clock. Defaults to time.Now in UTC.
	NowFunc func() time.Time
}

// NewMongoChatRepository constructs a chat repository backed by MongoDB.
func NewMongoChatRepository(provider db.CollectionProvider) *MongoChatRepository {
	return &MongoChatRepository{provider: provider}
}

// Create stores a new chat document for the owning user, generating the
// externally visible chat ID.
func (r *MongoChatRepository) Create(ctx context.Context, req models.ChatCreationRequest) (models.Chat, error) {
	ownerID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return models.Chat{}, fmt.Errorf("%w: user id %q", ErrInvalidID, req.UserID)
	}

	coll, err := r.provider.Collection(db.ChatsCollectionName)
	if err != nil {
		return models.Chat{}, fmt.Errorf("chats collection: %w", err)
	}

	chat := models.Chat{
		UserID:    ownerID,
		ChatID:    uuid.NewString(),
		ChatName:  req.Name(),
		Frames:    []models.StoredFrame{},
		CreatedAt: r.now(),
	}

	result, err := coll.InsertOne(ctx, chat)
	if err != nil {
		return models.Chat{}, fmt.Errorf("insert chat: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		chat.ID = oid
	}

	return chat, nil
}

// ListByUser returns the user's chats, newest first, capped at 100.
func (r *MongoChatRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id %q", ErrInvalidID, userID)
	}

	coll, err := r.provider.Collection(db.ChatsCollectionName)
	if err != nil {
		return nil, fmt.Errorf("chats collection: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listChatsLimit)

	cursor, err := coll.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("decode chats: %w", err)
	}

	return chats, nil
}

// AppendFrames pushes frame records onto an existing chat's frames array.
func (r *MongoChatRepository) AppendFrames(ctx context.Context, chatID string, frames []models.StoredFrame) error {
	if len(frames) == 0 {
		return nil
	}

	coll, err := r.provider.Collection(db.ChatsCollectionName)
	if err != nil {
		return fmt.Errorf("chats collection: %w", err)
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$push": bson.M{"frames": bson.M{"$each": frames}}},
	)
	if err != nil {
		return fmt.Errorf("append frames: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MongoChatRepository) now() time.Time {
	if r.NowFunc != nil {
		return r.NowFunc()
	}
	return time.Now().UTC()
}

var _ UserRepository = (*MongoUserRepository)(nil)
var _ ChatRepository = (*MongoChatRepository)(nil)
