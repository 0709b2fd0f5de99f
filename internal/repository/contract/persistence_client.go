package contract

import (
	"context"

	"notes-ingest/internal/entity"

	"github.com/google/uuid"
)

// PersistenceClient is the sole gateway to the backing store. Every
// operation is an idempotent conflict-target upsert: safety under repeated
// ingestion runs rests entirely on this contract, not on any locking.
//
// Implementations: GormClient (real writes), DryRunClient (no writes),
// and the memory.RecordingClient test double.
type PersistenceClient interface {
	// UpsertNotebooks writes the batch's notebooks in one call, keyed on
	// the unique notebook name, and returns the name to id mapping. Empty
	// input yields an empty map without touching the backend.
	UpsertNotebooks(ctx context.Context, notebooks []entity.NotebookUpsert) (map[string]uuid.UUID, error)

	// UpsertTags normalizes the given names (trim, drop empty, dedupe)
	// before writing, keyed on the unique tag name.
	UpsertTags(ctx context.Context, names []string) (map[string]uuid.UUID, error)

	// UpsertNoteWithEmbedding writes one note keyed by its source id and
	// reports whether the row was inserted or updated. An empty body is
	// rejected regardless of what the caller filtered.
	UpsertNoteWithEmbedding(ctx context.Context, note *entity.NoteUpsert) (entity.UpsertOutcome, error)

	// UpsertNoteTagRelationships asserts the (noteId, tagId) pairs for one
	// note. Re-asserting an existing pair is a no-op; empty tagIds is a
	// no-op without a backend call.
	UpsertNoteTagRelationships(ctx context.Context, noteId string, tagIds []uuid.UUID) error
}
