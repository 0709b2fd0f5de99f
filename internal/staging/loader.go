package staging

import (
	"encoding/json"
	"fmt"
	"os"

	"notes-ingest/internal/entity"
)

// LoadParsedNotes reads the staging artifact wholesale into memory before
// orchestration begins; there is no streaming. A negative limit means no
// truncation.
func LoadParsedNotes(path string, limit int) ([]entity.ParsedNote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read staging artifact: %w", err)
	}

	var notes []entity.ParsedNote
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("parse staging artifact: %w", err)
	}

	if limit >= 0 && limit < len(notes) {
		notes = notes[:limit]
	}

	return notes, nil
}
