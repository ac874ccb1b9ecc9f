package storage

import "time"

// Document is one uploaded PDF's metadata row. Chunk text and vectors live
// in the vector store; this table is the ownership record.
type Document struct {
	ID         string // UUID
	UserID     string
	Filename   string
	Title      string
	Category   string // financial, resume, travel, notes, other
	UploadedAt time.Time
}

// EmailCategory tracks which categories a user's indexed emails fall into,
// maintained by the background reindex worker.
type EmailCategory struct {
	UserID     string
	Name       string
	EmailCount int
	UpdatedAt  time.Time
}

// QueryRecord is one answered question, kept for the history page.
type QueryRecord struct {
	ID          string // UUID
	UserID      string
	Question    string
	Answer      string
	SourcesJSON string
	FromCache   bool
	ElapsedMs   int64
	AskedAt     time.Time
}
