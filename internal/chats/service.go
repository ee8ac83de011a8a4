// Package chats implements chat creation, listing and frame uploads on top of
// the chat repository and the frame store.
package chats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sceneframes/backend/internal/logging"
	"github.com/sceneframes/backend/internal/models"
	"github.com/sceneframes/backend/internal/repositories"
	"github.com/sceneframes/backend/internal/storage"
)

// FrameStorage persists raw frame content and returns its public location.
type FrameStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service coordinates chat persistence with frame blob storage.
type Service struct {
	Chats repositories.ChatRepository

	// Storage is optional; metadata-only uploads work without it.
	Storage FrameStorage
}

// CreateChat stores a new chat for the requesting user. An empty chat name
// falls back to models.DefaultChatName.
func (s *Service) CreateChat(ctx context.Context, req models.ChatCreationRequest) (models.Chat, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return models.Chat{}, ErrMissingUserID
	}

	chat, err := s.Chats.Create(ctx, req)
	if err != nil {
		return models.Chat{}, err
	}

	logging.FromContext(ctx).Info("chat created", "chatId", chat.ChatID, "chatName", chat.ChatName)
	return chat, nil
}

// ListChats returns the user's chats, newest first.
func (s *Service) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	return s.Chats.ListByUser(ctx, userID)
}

// UploadFrames appends the request's frame metadata to the chat. When a blob
// is supplied for a frame (keyed by its position in the request), the content
// is stored first and the resulting location recorded alongside the metadata.
func (s *Service) UploadFrames(ctx context.Context, req models.FramesUploadRequest, blobs map[int]io.Reader) error {
	if strings.TrimSpace(req.ChatID) == "" {
		return ErrMissingChatID
	}
	if len(req.Frames) == 0 {
		return nil
	}

	stored := make([]models.StoredFrame, 0, len(req.Frames))
	for i, meta := range req.Frames {
		frame := models.StoredFrame{
			FrameIndex: meta.FrameIndex,
			Timestamp:  meta.Timestamp,
		}

		if blob, ok := blobs[i]; ok && blob != nil {
			if s.Storage == nil {
				return ErrStorageUnavailable
			}
			location, err := s.Storage.Save(ctx, storage.FrameKey(req.ChatID, meta.FrameIndex), blob)
			if err != nil {
				return fmt.Errorf("store frame %d: %w", meta.FrameIndex, err)
			}
			frame.AssetURL = location
		}

		stored = append(stored, frame)
	}

	if err := s.Chats.AppendFrames(ctx, req.ChatID, stored); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("frames uploaded", "chatId", req.ChatID, "count", len(stored))
	return nil
}
