package model

import "time"

// ContentKind identifies the type of source a content record was created from
type ContentKind string

const (
	KindAudio    ContentKind = "audio"
	KindBook     ContentKind = "book"
	KindVideo    ContentKind = "video"
	KindVideoURL ContentKind = "video_url"
)

// Content represents a processed artifact: transcript plus generated notes.
// Records are created once and never updated; re-processing a source creates
// a new record.
type Content struct {
	ID          int64       `json:"id" db:"id"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	Kind        ContentKind `json:"kind" db:"kind"`
	Title       string      `json:"title" db:"title"`
	SourceName  string      `json:"source_name" db:"source_name"` // stored filename or video URL
	Transcript  string      `json:"transcript" db:"transcript"`
	Summary     *string     `json:"summary" db:"summary"`
	ActionItems *string     `json:"action_items" db:"action_items"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
