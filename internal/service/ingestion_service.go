package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notes-ingest/internal/entity"
	"notes-ingest/internal/pkg/logger"
	"notes-ingest/internal/repository/contract"
	"notes-ingest/internal/resolver"
	"notes-ingest/pkg/embedding"

	"github.com/google/uuid"
)

// IIngestionService sequences one ingestion run: notebook upsert, tag
// upsert, then per-note embed + upsert + relationships, in input order.
// Safety under repeated runs rests on the persistence client's idempotent
// upserts; the service holds no state across runs.
type IIngestionService interface {
	Ingest(ctx context.Context, notes []entity.ParsedNote, dryRun bool) (*entity.IngestionReport, error)
}

type ingestionService struct {
	client   contract.PersistenceClient
	embedder embedding.Provider
	logger   logger.ILogger
}

func NewIngestionService(
	client contract.PersistenceClient,
	embedder embedding.Provider,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		client:   client,
		embedder: embedder,
		logger:   log,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, notes []entity.ParsedNote, dryRun bool) (*entity.IngestionReport, error) {
	s.logger.Info("ingestion", "starting batch", map[string]interface{}{
		"notes":   len(notes),
		"dry_run": dryRun,
	})

	if dryRun {
		return s.ingestDryRun(ctx, notes)
	}
	return s.ingestReal(ctx, notes)
}

// ingestReal runs the full write path. Ordering is a hard contract:
// notebooks before tags before notes, and each note's upsert strictly
// precedes its relationship upsert, because relationship rows are
// foreign-keyed to both sides.
func (s *ingestionService) ingestReal(ctx context.Context, notes []entity.ParsedNote) (*entity.IngestionReport, error) {
	if s.client == nil {
		return nil, errors.New("persistence client is not configured")
	}

	report := entity.NewIngestionReport()

	// Batch stages are prerequisites for every note; their failure is
	// fatal to the run, not a per-note failure.
	notebookIdMap, err := s.client.UpsertNotebooks(ctx, resolver.ResolveNotebooks(notes))
	if err != nil {
		return nil, fmt.Errorf("notebook upsert failed: %w", err)
	}

	// Tags come from the notes that will actually be written; a note whose
	// body is empty contributes no tags.
	tagIdMap, err := s.client.UpsertTags(ctx, resolver.ExtractAllTags(withBody(notes)))
	if err != nil {
		return nil, fmt.Errorf("tag upsert failed: %w", err)
	}
	report.TagsInserted = len(tagIdMap)

	noteTagMap := resolver.MapNoteTagsToIDs(notes, tagIdMap)

	for _, note := range notes {
		report.NotesProcessed++

		if strings.TrimSpace(note.Body) == "" {
			report.NotesSkipped++
			continue
		}

		if err := s.ingestOne(ctx, note, notebookIdMap, noteTagMap[note.Id], report); err != nil {
			// One bad note never aborts the batch.
			report.Failures = append(report.Failures, entity.IngestionFailure{
				Id:    note.Id,
				Error: err.Error(),
			})
			s.logger.Warn("ingestion", "note failed", map[string]interface{}{
				"id":    note.Id,
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("ingestion", "batch finished", map[string]interface{}{
		"processed": report.NotesProcessed,
		"inserted":  report.NotesInserted,
		"updated":   report.NotesUpdated,
		"skipped":   report.NotesSkipped,
		"failures":  len(report.Failures),
	})

	return report, nil
}

func (s *ingestionService) ingestOne(
	ctx context.Context,
	note entity.ParsedNote,
	notebookIdMap map[string]uuid.UUID,
	tagIds []uuid.UUID,
	report *entity.IngestionReport,
) error {
	label := resolver.NotebookLabel(note)

	var notebookId *uuid.UUID
	if label != "" {
		if id, ok := notebookIdMap[label]; ok {
			notebookId = &id
		}
	}

	vec, err := s.embedder.Generate(note.Body)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	outcome, err := s.client.UpsertNoteWithEmbedding(ctx, &entity.NoteUpsert{
		Id:         note.Id,
		Title:      note.Title,
		Body:       note.Body,
		Metadata:   note.Metadata,
		Notebook:   label,
		NotebookId: notebookId,
		Embedding:  vec,
	})
	if err != nil {
		return fmt.Errorf("note upsert: %w", err)
	}

	switch outcome {
	case entity.OutcomeUpdated:
		report.NotesUpdated++
	default:
		// Unknown outcomes count as inserts.
		report.NotesInserted++
	}

	// Relationships follow their note within the same iteration so a
	// failure is attributed to exactly one note.
	if err := s.client.UpsertNoteTagRelationships(ctx, note.Id, tagIds); err != nil {
		return fmt.Errorf("relationship upsert: %w", err)
	}
	report.RelationshipsCreated += len(tagIds)

	return nil
}

// withBody filters out the notes the skip invariant excludes from
// persistence.
func withBody(notes []entity.ParsedNote) []entity.ParsedNote {
	kept := make([]entity.ParsedNote, 0, len(notes))
	for _, note := range notes {
		if strings.TrimSpace(note.Body) != "" {
			kept = append(kept, note)
		}
	}
	return kept
}

// ingestDryRun runs the full computational pipeline, including embedding
// generation, but issues no backend writes. The report is structurally
// identical to the real path's.
func (s *ingestionService) ingestDryRun(ctx context.Context, notes []entity.ParsedNote) (*entity.IngestionReport, error) {
	report := entity.NewIngestionReport()

	for _, note := range notes {
		report.NotesProcessed++

		if strings.TrimSpace(note.Body) == "" {
			report.NotesSkipped++
			continue
		}

		vec, err := s.embedder.Generate(note.Body)
		if err != nil {
			report.Failures = append(report.Failures, entity.IngestionFailure{
				Id:    note.Id,
				Error: err.Error(),
			})
			continue
		}

		record := entity.NoteUpsert{
			Id:       note.Id,
			Title:    note.Title,
			Body:     note.Body,
			Metadata: note.Metadata,
			// Placeholder taken verbatim from the note; no real resolution.
			Notebook:  note.Notebook,
			Embedding: vec,
		}

		// Forward for call recording when a client is present. The outcome
		// is ignored: a dry run never reports updates.
		if s.client != nil {
			_, _ = s.client.UpsertNoteWithEmbedding(ctx, &record)
		}
		report.NotesInserted++
	}

	report.TagsInserted = len(resolver.ExtractAllTags(withBody(notes)))

	// Raw per-note tag counts; no id resolution happens in a dry run.
	for _, note := range notes {
		report.RelationshipsCreated += len(note.Tags)
	}

	return report, nil
}
