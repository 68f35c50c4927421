package models

import (
	"time"
)

// Comment is the stored representation of a comment on an item.
// ClientFingerprint never leaves the storage layer.
type Comment struct {
	ID                string    `db:"id"`
	ItemID            string    `db:"item_id"`
	Author            string    `db:"author"`
	Content           string    `db:"content"`
	Mood              Mood      `db:"mood"`
	CreatedAt         time.Time `db:"created_at"`
	ClientFingerprint string    `db:"client_fingerprint"`
}

// PublicComment is the only comment shape returned to callers
type PublicComment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Mood is an optional reaction tag attached to a comment
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodLove     Mood = "love"
	MoodLaugh    Mood = "laugh"
	MoodWow      Mood = "wow"
	MoodSad      Mood = "sad"
	MoodThinking Mood = "thinking"
)

// ValidMoods defines the closed set of accepted moods
var ValidMoods = map[Mood]bool{
	MoodHappy:    true,
	MoodLove:     true,
	MoodLaugh:    true,
	MoodWow:      true,
	MoodSad:      true,
	MoodThinking: true,
}

// Field bounds, counted in runes after trimming
const (
	MaxAuthorLength  = 50
	MaxContentLength = 2000
)

// CreateCommentRequest is the POST body accepted from the presentation layer
type CreateCommentRequest struct {
	Author            string `json:"author"`
	Content           string `json:"content"`
	Mood              string `json:"mood,omitempty"`
	VerificationToken string `json:"verificationToken"`
}
