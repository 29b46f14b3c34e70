package models

import "time"

// Filesystem entry kinds.
const (
	EntryKindFolder = "folder"
	EntryKindFile   = "file"
)

// FSEntry is one node in an account's private tree. ParentID is nil for
// entries directly under the implicit root. For files, SizeBytes is the
// logical content size; content bytes live outside this server.
type FSEntry struct {
	ID        string
	AccountID string
	ParentID  *string
	Name      string
	Kind      string
	SizeBytes int64
	CreatedAt time.Time
}
