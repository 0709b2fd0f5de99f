package memory

import (
	"context"
	"fmt"
	"strings"

	"notes-ingest/internal/entity"
	"notes-ingest/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Call op names recorded by the RecordingClient.
const (
	CallUpsertNotebooks     = "upsert_notebooks"
	CallUpsertTags          = "upsert_tags"
	CallUpsertNote          = "upsert_note_with_embedding"
	CallUpsertRelationships = "upsert_note_tag_relationships"
)

// RecordingClient is an in-memory persistence client that records every call
// in order, for assertions on call sequencing. It keeps a real keyed store so
// repeated runs exercise the insert-vs-update distinction, and assigns ids
// from a deterministic sequence so mappings can be checked by exact value.
type RecordingClient struct {
	// Calls holds one "<op>" or "<op>:<noteId>" entry per client call, in
	// the order the orchestrator issued them.
	Calls []string

	// Error injection for failure-path tests.
	NotebookErr error
	TagErr      error
	NoteErrs    map[string]error

	Notebooks     map[string]uuid.UUID
	Tags          map[string]uuid.UUID
	Relationships map[string][]uuid.UUID

	notes    *cache.Cache
	sequence int
}

func NewRecordingClient() *RecordingClient {
	return &RecordingClient{
		Calls:         make([]string, 0),
		NoteErrs:      make(map[string]error),
		Notebooks:     make(map[string]uuid.UUID),
		Tags:          make(map[string]uuid.UUID),
		Relationships: make(map[string][]uuid.UUID),
		notes:         cache.New(cache.NoExpiration, 0),
	}
}

func (c *RecordingClient) nextId() uuid.UUID {
	c.sequence++
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", c.sequence))
}

func (c *RecordingClient) UpsertNotebooks(ctx context.Context, notebooks []entity.NotebookUpsert) (map[string]uuid.UUID, error) {
	c.Calls = append(c.Calls, CallUpsertNotebooks)
	if c.NotebookErr != nil {
		return nil, c.NotebookErr
	}

	result := make(map[string]uuid.UUID)
	for _, nb := range notebooks {
		if _, ok := c.Notebooks[nb.Name]; !ok {
			c.Notebooks[nb.Name] = c.nextId()
		}
		result[nb.Name] = c.Notebooks[nb.Name]
	}
	return result, nil
}

func (c *RecordingClient) UpsertTags(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	c.Calls = append(c.Calls, CallUpsertTags)
	if c.TagErr != nil {
		return nil, c.TagErr
	}

	result := make(map[string]uuid.UUID)
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := c.Tags[name]; !ok {
			c.Tags[name] = c.nextId()
		}
		result[name] = c.Tags[name]
	}
	return result, nil
}

func (c *RecordingClient) UpsertNoteWithEmbedding(ctx context.Context, note *entity.NoteUpsert) (entity.UpsertOutcome, error) {
	c.Calls = append(c.Calls, CallUpsertNote+":"+note.Id)
	if err, ok := c.NoteErrs[note.Id]; ok {
		return "", err
	}
	if strings.TrimSpace(note.Body) == "" {
		return "", fmt.Errorf("note body must not be empty")
	}

	_, existed := c.notes.Get(note.Id)
	c.notes.Set(note.Id, *note, cache.NoExpiration)
	if existed {
		return entity.OutcomeUpdated, nil
	}
	return entity.OutcomeInserted, nil
}

func (c *RecordingClient) UpsertNoteTagRelationships(ctx context.Context, noteId string, tagIds []uuid.UUID) error {
	c.Calls = append(c.Calls, CallUpsertRelationships+":"+noteId)
	if len(tagIds) == 0 {
		return nil
	}

	existing := c.Relationships[noteId]
	for _, tagId := range tagIds {
		seen := false
		for _, id := range existing {
			if id == tagId {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, tagId)
		}
	}
	c.Relationships[noteId] = existing
	return nil
}

// StoredNote returns the last simulated write for the given note id.
func (c *RecordingClient) StoredNote(id string) (entity.NoteUpsert, bool) {
	if x, found := c.notes.Get(id); found {
		return x.(entity.NoteUpsert), true
	}
	return entity.NoteUpsert{}, false
}

var _ contract.PersistenceClient = (*RecordingClient)(nil)
