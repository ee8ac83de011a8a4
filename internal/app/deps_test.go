package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sceneframes/backend/internal/config"
	"github.com/sceneframes/backend/internal/db"
	"github.com/sceneframes/backend/internal/token"
)

type fakeProvider struct{}

func (fakeProvider) Collection(string) (*mongo.Collection, error) {
	return nil, db.ErrUnavailable
}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		LoginRateLimit: 10,
		LoginRateBurst: 5,
		FrameStore: config.ObjectStoreConfig{
			Bucket:   "test-bucket",
			Endpoint: "http://localhost:9000",
			Region:   "us-east-1",
		},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakeProvider{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Auth == nil {
		t.Fatal("expected auth service to be configured")
	}
	if deps.Auth.Throttle == nil {
		t.Fatal("expected login throttle to be configured")
	}
	if deps.Chats == nil {
		t.Fatal("expected chat service to be configured")
	}
	if deps.Chats.Storage == nil {
		t.Fatal("expected frame storage to be configured")
	}
	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
}

func TestBuildDependenciesWithoutBucket(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	deps, err := buildDependencies(context.Background(), fakeProvider{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.Chats.Storage != nil {
		t.Fatal("expected no frame storage without a bucket")
	}
}

func TestBuildDependenciesRequiresSecret(t *testing.T) {
	cfg := config.Config{TokenTTL: time.Hour}

	_, err := buildDependencies(context.Background(), fakeProvider{}, cfg)
	if !errors.Is(err, token.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
