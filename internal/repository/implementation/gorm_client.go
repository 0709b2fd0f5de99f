package implementation

import (
	"context"
	"errors"
	"strings"

	"notes-ingest/internal/entity"
	"notes-ingest/internal/model"
	"notes-ingest/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormClient struct {
	db *gorm.DB
}

func NewGormClient(db *gorm.DB) contract.PersistenceClient {
	return &GormClient{db: db}
}

func (c *GormClient) UpsertNotebooks(ctx context.Context, notebooks []entity.NotebookUpsert) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID)
	if len(notebooks) == 0 {
		return result, nil
	}

	rows := make([]model.Notebook, len(notebooks))
	names := make([]string, len(notebooks))
	for i, nb := range notebooks {
		rows[i] = model.Notebook{Name: nb.Name}
		names[i] = nb.Name
	}

	// Conflict target is the unique name; existing rows keep their ids.
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, wrapDBError("upsert", "notebooks", err)
	}

	// Re-select: Create does not report ids for rows the conflict skipped.
	var stored []model.Notebook
	if err := c.db.WithContext(ctx).Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, wrapDBError("select", "notebooks", err)
	}
	for _, row := range stored {
		result[row.Name] = row.Id
	}

	return result, nil
}

func (c *GormClient) UpsertTags(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID)

	normalized := normalizeTagNames(names)
	if len(normalized) == 0 {
		return result, nil
	}

	rows := make([]model.Tag, len(normalized))
	for i, name := range normalized {
		rows[i] = model.Tag{Name: name}
	}

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, wrapDBError("upsert", "tags", err)
	}

	var stored []model.Tag
	if err := c.db.WithContext(ctx).Where("name IN ?", normalized).Find(&stored).Error; err != nil {
		return nil, wrapDBError("select", "tags", err)
	}
	for _, row := range stored {
		result[row.Name] = row.Id
	}

	return result, nil
}

func (c *GormClient) UpsertNoteWithEmbedding(ctx context.Context, note *entity.NoteUpsert) (entity.UpsertOutcome, error) {
	// The orchestrator filters empty bodies first, but the client defends
	// independently: an empty note must never reach the store.
	if strings.TrimSpace(note.Body) == "" {
		return "", errors.New("note body must not be empty")
	}

	// Keyed lookup to distinguish first write from overwrite.
	var existing model.Note
	found := true
	err := c.db.WithContext(ctx).Where("id = ?", note.Id).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", wrapDBError("select", "notes", err)
		}
		found = false
	}

	row := model.Note{
		Id:         note.Id,
		Title:      note.Title,
		Content:    note.Body,
		Embedding:  pgvector.NewVector(note.Embedding),
		NotebookId: note.NotebookId,
		Metadata:   datatypes.JSONMap(note.Metadata),
	}

	if found {
		row.CreatedAt = existing.CreatedAt
		if err := c.db.WithContext(ctx).Save(&row).Error; err != nil {
			return "", wrapDBError("update", "notes", err)
		}
		return entity.OutcomeUpdated, nil
	}

	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", wrapDBError("insert", "notes", err)
	}
	return entity.OutcomeInserted, nil
}

func (c *GormClient) UpsertNoteTagRelationships(ctx context.Context, noteId string, tagIds []uuid.UUID) error {
	if len(tagIds) == 0 {
		return nil
	}

	rows := make([]model.NoteTag, len(tagIds))
	for i, tagId := range tagIds {
		rows[i] = model.NoteTag{NoteId: noteId, TagId: tagId}
	}

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return wrapDBError("upsert", "note_tags", err)
	}
	return nil
}

// normalizeTagNames trims, drops empties, and dedupes while preserving
// first-seen order. Must match the resolver's normalization so the id map
// keys line up.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		normalized = append(normalized, name)
	}
	return normalized
}
