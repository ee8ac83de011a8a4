package chats

import "errors"

var (
	// ErrMissingUserID indicates the request carried no owner identifier.
	ErrMissingUserID = errors.New("chats: user id is required")
	// ErrMissingChatID indicates the request carried no chat identifier.
	ErrMissingChatID = errors.New("chats: chat id is required")
	// ErrStorageUnavailable indicates frame content was supplied but no frame
	// store is configured.
	ErrStorageUnavailable = errors.New("chats: frame storage unavailable")
)
