package chats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sceneframes/backend/internal/models"
	"github.com/sceneframes/backend/internal/repositories"
)

type fakeChatRepo struct {
	nextID int
	chats  map[string]*models.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*models.Chat)}
}

func (f *fakeChatRepo) Create(_ context.Context, req models.ChatCreationRequest) (models.Chat, error) {
	f.nextID++
	chat := models.Chat{
		ChatID:    fmt.Sprintf("chat-%d", f.nextID),
		ChatName:  req.Name(),
		Frames:    []models.StoredFrame{},
		CreatedAt: time.Now().UTC(),
	}
	f.chats[chat.ChatID] = &chat
	return chat, nil
}

func (f *fakeChatRepo) ListByUser(context.Context, string) ([]models.Chat, error) {
	var out []models.Chat
	for _, chat := range f.chats {
		out = append(out, *chat)
	}
	return out, nil
}

func (f *fakeChatRepo) AppendFrames(_ context.Context, chatID string, frames []models.StoredFrame) error {
	chat, ok := f.chats[chatID]
	if !ok {
		return repositories.ErrNotFound
	}
	chat.Frames = append(chat.Frames, frames...)
	return nil
}

type fakeStorage struct {
	saved map[string]string
}

func (f *fakeStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[name] = string(data)
	return "https://cdn.test/" + name, nil
}

func TestCreateChatDefaultsName(t *testing.T) {
	svc := &Service{Chats: newFakeChatRepo()}

	chat, err := svc.CreateChat(context.Background(), models.ChatCreationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if chat.ChatName != models.DefaultChatName {
		t.Fatalf("expected default name, got %q", chat.ChatName)
	}
	if chat.ChatID == "" {
		t.Fatal("expected generated chat id")
	}
}

func TestCreateChatRequiresUserID(t *testing.T) {
	svc := &Service{Chats: newFakeChatRepo()}

	if _, err := svc.CreateChat(context.Background(), models.ChatCreationRequest{}); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestUploadFramesMetadataOnly(t *testing.T) {
	repo := newFakeChatRepo()
	svc := &Service{Chats: repo}

	chat, err := svc.CreateChat(context.Background(), models.ChatCreationRequest{UserID: "u1", ChatName: "demo"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	ts := 0.5
	req := models.FramesUploadRequest{
		UserID: "u1",
		ChatID: chat.ChatID,
		Frames: []models.FrameMetadata{{FrameIndex: 0, Timestamp: &ts}, {FrameIndex: 1}},
	}
	if err := svc.UploadFrames(context.Background(), req, nil); err != nil {
		t.Fatalf("upload frames: %v", err)
	}

	stored := repo.chats[chat.ChatID].Frames
	if len(stored) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(stored))
	}
	if stored[0].Timestamp == nil || *stored[0].Timestamp != ts {
		t.Fatalf("expected timestamp %v, got %v", ts, stored[0].Timestamp)
	}
	if stored[1].Timestamp != nil {
		t.Fatal("expected nil timestamp for second frame")
	}
}

func TestUploadFramesStoresBlobs(t *testing.T) {
	repo := newFakeChatRepo()
	store := &fakeStorage{}
	svc := &Service{Chats: repo, Storage: store}

	chat, err := svc.CreateChat(context.Background(), models.ChatCreationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	req := models.FramesUploadRequest{
		UserID: "u1",
		ChatID: chat.ChatID,
		Frames: []models.FrameMetadata{{FrameIndex: 3}},
	}
	blobs := map[int]io.Reader{0: strings.NewReader("frame-bytes")}

	if err := svc.UploadFrames(context.Background(), req, blobs); err != nil {
		t.Fatalf("upload frames: %v", err)
	}

	key := fmt.Sprintf("frames/%s/3", chat.ChatID)
	if store.saved[key] != "frame-bytes" {
		t.Fatalf("expected blob stored under %s, got %v", key, store.saved)
	}

	stored := repo.chats[chat.ChatID].Frames
	if stored[0].AssetURL != "https://cdn.test/"+key {
		t.Fatalf("expected asset url recorded, got %q", stored[0].AssetURL)
	}
}

func TestUploadFramesWithoutStorage(t *testing.T) {
	repo := newFakeChatRepo()
	svc := &Service{Chats: repo}

	chat, err := svc.CreateChat(context.Background(), models.ChatCreationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	req := models.FramesUploadRequest{
		ChatID: chat.ChatID,
		Frames: []models.FrameMetadata{{FrameIndex: 0}},
	}
	err = svc.UploadFrames(context.Background(), req, map[int]io.Reader{0: strings.NewReader("x")})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestUploadFramesMissingChat(t *testing.T) {
	svc := &Service{Chats: newFakeChatRepo()}

	req := models.FramesUploadRequest{
		ChatID: "nope",
		Frames: []models.FrameMetadata{{FrameIndex: 0}},
	}
	if err := svc.UploadFrames(context.Background(), req, nil); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
