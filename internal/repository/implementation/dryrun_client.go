package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notes-ingest/internal/entity"
	"notes-ingest/internal/repository/contract"

	"github.com/google/uuid"
)

// DryRunClient satisfies the persistence contract without any backend
// writes. Ids are assigned from a deterministic sequence so a dry run
// produces the same mappings every time, and the simulated records are kept
// in memory for inspection.
type DryRunClient struct {
	Notebooks map[string]uuid.UUID
	Tags      map[string]uuid.UUID
	Notes     []entity.NoteUpsert

	sequence int
}

func NewDryRunClient() *DryRunClient {
	return &DryRunClient{
		Notebooks: make(map[string]uuid.UUID),
		Tags:      make(map[string]uuid.UUID),
		Notes:     make([]entity.NoteUpsert, 0),
	}
}

func (c *DryRunClient) nextId() uuid.UUID {
	c.sequence++
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", c.sequence))
}

func (c *DryRunClient) UpsertNotebooks(ctx context.Context, notebooks []entity.NotebookUpsert) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID)
	for _, nb := range notebooks {
		if _, ok := c.Notebooks[nb.Name]; !ok {
			c.Notebooks[nb.Name] = c.nextId()
		}
		result[nb.Name] = c.Notebooks[nb.Name]
	}
	return result, nil
}

func (c *DryRunClient) UpsertTags(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID)
	for _, name := range normalizeTagNames(names) {
		if _, ok := c.Tags[name]; !ok {
			c.Tags[name] = c.nextId()
		}
		result[name] = c.Tags[name]
	}
	return result, nil
}

func (c *DryRunClient) UpsertNoteWithEmbedding(ctx context.Context, note *entity.NoteUpsert) (entity.UpsertOutcome, error) {
	if strings.TrimSpace(note.Body) == "" {
		return "", errors.New("note body must not be empty")
	}
	// No existence check: a dry run only simulates the note-shaped value
	// and never reports an update.
	c.Notes = append(c.Notes, *note)
	return entity.OutcomeInserted, nil
}

func (c *DryRunClient) UpsertNoteTagRelationships(ctx context.Context, noteId string, tagIds []uuid.UUID) error {
	return nil
}

var _ contract.PersistenceClient = (*DryRunClient)(nil)
