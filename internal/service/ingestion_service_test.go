package service

import (
	"context"
	"errors"
	"testing"

	"notes-ingest/internal/entity"
	"notes-ingest/internal/pkg/logger"
	"notes-ingest/internal/repository/implementation"
	"notes-ingest/internal/repository/memory"
	"notes-ingest/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(client *memory.RecordingClient) IIngestionService {
	return NewIngestionService(client, embedding.NewDeterministicProvider(), logger.NewNopLogger())
}

func sampleBatch() []entity.ParsedNote {
	return []entity.ParsedNote{
		{Id: "n1", Body: "x", Notebook: "Work", Tags: []string{"t1", "t2"}},
		{Id: "n2", Body: "y", Notebook: "Personal", Tags: []string{"t2"}},
		{Id: "n3", Body: "", Notebook: "Work", Tags: []string{"skip"}},
	}
}

func TestIngestFreshStore(t *testing.T) {
	client := memory.NewRecordingClient()
	svc := newTestService(client)

	report, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.NotesProcessed)
	assert.Equal(t, 1, report.NotesSkipped)
	assert.Equal(t, 2, report.NotesInserted)
	assert.Equal(t, 0, report.NotesUpdated)
	assert.Equal(t, 2, report.TagsInserted)
	assert.Equal(t, 3, report.RelationshipsCreated)
	assert.Empty(t, report.Failures)

	// Tags belong to written notes only; the skipped note's tag never
	// reaches the store.
	assert.NotContains(t, client.Tags, "skip")

	// Deterministic ids follow batch call order exactly.
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000001"), client.Notebooks["Work"])
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000002"), client.Notebooks["Personal"])
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000003"), client.Tags["t1"])
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000004"), client.Tags["t2"])
}

func TestIngestCallOrdering(t *testing.T) {
	client := memory.NewRecordingClient()
	svc := newTestService(client)

	_, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.NoError(t, err)

	want := []string{
		memory.CallUpsertNotebooks,
		memory.CallUpsertTags,
		memory.CallUpsertNote + ":n1",
		memory.CallUpsertRelationships + ":n1",
		memory.CallUpsertNote + ":n2",
		memory.CallUpsertRelationships + ":n2",
	}
	assert.Equal(t, want, client.Calls)
}

func TestIngestIdempotence(t *testing.T) {
	client := memory.NewRecordingClient()
	svc := newTestService(client)

	first, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.NoError(t, err)

	notebooks := map[string]uuid.UUID{}
	for k, v := range client.Notebooks {
		notebooks[k] = v
	}
	tags := map[string]uuid.UUID{}
	for k, v := range client.Tags {
		tags[k] = v
	}

	second, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, second.NotesInserted)
	assert.Equal(t, first.NotesInserted, second.NotesUpdated)
	assert.Equal(t, first.NotesSkipped, second.NotesSkipped)
	assert.Empty(t, second.Failures)

	// Re-running assigns the same ids.
	assert.Equal(t, notebooks, client.Notebooks)
	assert.Equal(t, tags, client.Tags)

	// Relationship pairs are unique; re-asserting adds nothing.
	assert.Len(t, client.Relationships["n1"], 2)
	assert.Len(t, client.Relationships["n2"], 1)
}

func TestIngestSkipsWhitespaceBody(t *testing.T) {
	client := memory.NewRecordingClient()
	svc := newTestService(client)

	notes := []entity.ParsedNote{
		{Id: "n1", Body: "   \n\t"},
		{Id: "n2", Body: "content"},
	}

	report, err := svc.Ingest(context.Background(), notes, false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.NotesProcessed)
	assert.Equal(t, 1, report.NotesSkipped)
	assert.Equal(t, 1, report.NotesInserted)
	assert.Empty(t, report.Failures)

	// No persistence call is made for the skipped note.
	assert.NotContains(t, client.Calls, memory.CallUpsertNote+":n1")
	assert.NotContains(t, client.Calls, memory.CallUpsertRelationships+":n1")
}

func TestIngestFailureIsolation(t *testing.T) {
	client := memory.NewRecordingClient()
	client.NoteErrs["n1"] = errors.New("backend write failed")
	svc := newTestService(client)

	report, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.NotesProcessed)
	assert.Equal(t, 1, report.NotesInserted)
	assert.Equal(t, 1, report.NotesSkipped)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "n1", report.Failures[0].Id)
	assert.Contains(t, report.Failures[0].Error, "backend write failed")

	// n1's relationships are never asserted; n2 continues normally.
	assert.NotContains(t, client.Calls, memory.CallUpsertRelationships+":n1")
	assert.Contains(t, client.Calls, memory.CallUpsertNote+":n2")
	assert.Equal(t, 1, report.RelationshipsCreated)
}

func TestIngestBatchStageFailuresAreFatal(t *testing.T) {
	client := memory.NewRecordingClient()
	client.NotebookErr = errors.New("connection refused")
	svc := newTestService(client)

	_, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notebook upsert failed")

	client = memory.NewRecordingClient()
	client.TagErr = errors.New("connection refused")
	svc = newTestService(client)

	_, err = svc.Ingest(context.Background(), sampleBatch(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag upsert failed")

	// Fatal stage errors stop the run before any note is touched.
	assert.NotContains(t, client.Calls, memory.CallUpsertNote+":n1")
}

func TestIngestRealModeRequiresClient(t *testing.T) {
	svc := NewIngestionService(nil, embedding.NewDeterministicProvider(), logger.NewNopLogger())

	_, err := svc.Ingest(context.Background(), sampleBatch(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDryRunIssuesNoBatchWrites(t *testing.T) {
	client := memory.NewRecordingClient()
	svc := newTestService(client)

	report, err := svc.Ingest(context.Background(), sampleBatch(), true)
	require.NoError(t, err)

	assert.Equal(t, 3, report.NotesProcessed)
	assert.Equal(t, 1, report.NotesSkipped)
	assert.Equal(t, 2, report.NotesInserted)
	assert.Equal(t, 0, report.NotesUpdated)
	assert.Equal(t, 2, report.TagsInserted)
	// Raw declared tags, including the skipped note's.
	assert.Equal(t, 4, report.RelationshipsCreated)
	assert.Empty(t, report.Failures)

	// Only note records are forwarded, for call recording; no notebook,
	// tag, or relationship calls happen.
	want := []string{
		memory.CallUpsertNote + ":n1",
		memory.CallUpsertNote + ":n2",
	}
	assert.Equal(t, want, client.Calls)
}

func TestDryRunWithoutClient(t *testing.T) {
	svc := NewIngestionService(nil, embedding.NewDeterministicProvider(), logger.NewNopLogger())

	report, err := svc.Ingest(context.Background(), sampleBatch(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.NotesInserted)
	assert.Empty(t, report.Failures)
}

func TestDryRunPlaceholderNotebook(t *testing.T) {
	client := implementation.NewDryRunClient()
	svc := NewIngestionService(client, embedding.NewDeterministicProvider(), logger.NewNopLogger())

	_, err := svc.Ingest(context.Background(), sampleBatch(), true)
	require.NoError(t, err)

	require.Len(t, client.Notes, 2)
	// The raw label stands in for the unresolved notebook id.
	assert.Equal(t, "Work", client.Notes[0].Notebook)
	assert.Nil(t, client.Notes[0].NotebookId)
	assert.Len(t, client.Notes[0].Embedding, embedding.Dimensions)
}

func TestDryRunRealParity(t *testing.T) {
	batch := sampleBatch()

	drySvc := newTestService(memory.NewRecordingClient())
	dry, err := drySvc.Ingest(context.Background(), batch, true)
	require.NoError(t, err)

	liveSvc := newTestService(memory.NewRecordingClient())
	live, err := liveSvc.Ingest(context.Background(), batch, false)
	require.NoError(t, err)

	assert.Equal(t, live.NotesProcessed, dry.NotesProcessed)
	assert.Equal(t, live.NotesSkipped, dry.NotesSkipped)
	assert.Equal(t, live.TagsInserted, dry.TagsInserted)
}
