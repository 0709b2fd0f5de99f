package resolver

import (
	"notes-ingest/internal/entity"
)

// ResolveNotebooks scans the batch once and returns one payload per distinct
// notebook label, preserving first-seen input order. Order matters: assigned
// ids are observable and depend on it. The label is read from the note's
// Notebook field, falling back to metadata["notebook"], first match wins.
func ResolveNotebooks(notes []entity.ParsedNote) []entity.NotebookUpsert {
	seen := make(map[string]bool)
	notebooks := make([]entity.NotebookUpsert, 0)

	for _, note := range notes {
		name := NotebookLabel(note)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		notebooks = append(notebooks, entity.NotebookUpsert{Name: name})
	}

	return notebooks
}

// NotebookLabel returns the notebook label a note references: the direct
// field when set, otherwise the nested metadata field.
func NotebookLabel(note entity.ParsedNote) string {
	if note.Notebook != "" {
		return note.Notebook
	}
	if v, ok := note.Metadata["notebook"].(string); ok {
		return v
	}
	return ""
}
