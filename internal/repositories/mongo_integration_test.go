package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sceneframes/backend/internal/db"
	"github.com/sceneframes/backend/internal/models"
)

// integrationManager connects to the instance named by MONGO_TEST_URI, or
// skips the test when none is configured.
func integrationManager(t *testing.T) *db.Manager {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping MongoDB integration tests")
	}

	manager := db.NewManager(uri, "scene_test", 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	manager.Initialize(ctx)

	state, lastErr := manager.Status()
	if state != db.StateReady {
		t.Fatalf("connect to test mongo: state %s: %v", state, lastErr)
	}

	t.Cleanup(func() {
		_ = manager.Disconnect(context.Background())
	})

	return manager
}

func TestMongoUserRepositoryRoundTrip(t *testing.T) {
	manager := integrationManager(t)
	repo := NewMongoUserRepository(manager)
	ctx := context.Background()

	email := fmt.Sprintf("user-%s@example.com", uuid.NewString())
	created, err := repo.Create(ctx, models.User{
		Name:      "Test User",
		Email:     email,
		Password:  "$2a$10$fakehashfakehashfakehash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected assigned ObjectID")
	}

	found, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID.Hex(), found.ID.Hex())
	}

	if _, err := repo.FindByEmail(ctx, "missing-"+email); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMongoChatRepositoryRoundTrip(t *testing.T) {
	manager := integrationManager(t)
	users := NewMongoUserRepository(manager)
	chats := NewMongoChatRepository(manager)
	ctx := context.Background()

	owner, err := users.Create(ctx, models.User{
		Name:  "Chat Owner",
		Email: fmt.Sprintf("owner-%s@example.com", uuid.NewString()),
	})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	chat, err := chats.Create(ctx, models.ChatCreationRequest{UserID: owner.ID.Hex()})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if chat.ChatID == "" {
		t.Fatal("expected generated chat id")
	}
	if chat.ChatName != models.DefaultChatName {
		t.Fatalf("expected default chat name, got %q", chat.ChatName)
	}

	ts := 1.25
	frames := []models.StoredFrame{
		{FrameIndex: 0, Timestamp: &ts},
		{FrameIndex: 1},
	}
	if err := chats.AppendFrames(ctx, chat.ChatID, frames); err != nil {
		t.Fatalf("append frames: %v", err)
	}

	listed, err := chats.ListByUser(ctx, owner.ID.Hex())
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(listed))
	}
	if len(listed[0].Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(listed[0].Frames))
	}

	if err := chats.AppendFrames(ctx, "missing-chat", frames); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing chat, got %v", err)
	}
}
