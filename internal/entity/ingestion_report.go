package entity

// IngestionFailure records one note that could not be persisted. The batch
// continues past it.
type IngestionFailure struct {
	Id    string `json:"id"`
	Error string `json:"error"`
}

// IngestionReport is the summary of one ingestion run. It is created fresh
// per run, mutated only by the ingestion service, and returned to the caller
// as the primary run oracle. Failures always serializes as a list.
type IngestionReport struct {
	NotesProcessed       int                `json:"notes_processed"`
	NotesInserted        int                `json:"notes_inserted"`
	NotesUpdated         int                `json:"notes_updated"`
	NotesSkipped         int                `json:"notes_skipped"`
	TagsInserted         int                `json:"tags_inserted"`
	RelationshipsCreated int                `json:"relationships_created"`
	Failures             []IngestionFailure `json:"failures"`
}

func NewIngestionReport() *IngestionReport {
	return &IngestionReport{
		Failures: make([]IngestionFailure, 0),
	}
}
