package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultChatName is applied when a chat is created without an explicit name.
const DefaultChatName = "New Chat"

// User represents an account stored in the Personal collection.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Chat is a conversation document owned by a user. Frames accumulate as the
// client uploads them; ChatID is the externally visible identifier while the
// Mongo _id stays internal.
type Chat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	ChatID    string             `bson:"chat_id" json:"chatId"`
	ChatName  string             `bson:"chat_name" json:"chatName"`
	Frames    []StoredFrame      `bson:"frames" json:"frames"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// StoredFrame is the persisted form of an uploaded frame.
type StoredFrame struct {
	FrameIndex int      `bson:"frame_index" json:"frame_index"`
	Timestamp  *float64 `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	AssetURL   string   `bson:"asset_url,omitempty" json:"assetUrl,omitempty"`
}

// ChatCreationRequest is the payload for creating a new chat.
type ChatCreationRequest struct {
	UserID   string `json:"user_id"`
	ChatName string `json:"chat_name"`
}

// Name returns the requested chat name, falling back to DefaultChatName.
func (r ChatCreationRequest) Name() string {
	if r.ChatName == "" {
		return DefaultChatName
	}
	return r.ChatName
}

// FrameMetadata describes a single uploaded frame. Timestamp is optional and
// expressed in seconds.
type FrameMetadata struct {
	FrameIndex int      `json:"frame_index"`
	Timestamp  *float64 `json:"timestamp,omitempty"`
}

// FramesUploadRequest is the payload for attaching frames to an existing chat.
// Frame indices are not required to be unique or ordered.
type FramesUploadRequest struct {
	UserID string          `json:"user_id"`
	ChatID string          `json:"chat_id"`
	Frames []FrameMetadata `json:"frames"`
}
