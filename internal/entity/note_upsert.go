package entity

import "github.com/google/uuid"

// UpsertOutcome reports whether an upsert created a new row or replaced an
// existing one.
type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeUpdated  UpsertOutcome = "updated"
)

// NotebookUpsert is one notebook payload ready for persistence. Batches are
// passed as slices so first-seen input order is preserved; assigned ids are
// observable and depend on it.
type NotebookUpsert struct {
	Name string
}

// NoteUpsert is the persisted shape of a note handed to the persistence
// client. NotebookId is the resolved foreign key; Notebook carries the raw
// label and stands in for the unresolved id in dry-run mode.
type NoteUpsert struct {
	Id         string
	Title      string
	Body       string
	Metadata   map[string]interface{}
	Notebook   string
	NotebookId *uuid.UUID
	Embedding  []float32
}
