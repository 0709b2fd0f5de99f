package resolver

import (
	"strings"

	"notes-ingest/internal/entity"

	"github.com/google/uuid"
)

// ExtractAllTags returns the distinct normalized tag names across a batch of
// notes, in first-seen order. Normalization is trim-whitespace, drop-empty,
// case-preserving, and is idempotent: the same raw string always yields the
// same name.
func ExtractAllTags(notes []entity.ParsedNote) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)

	for _, note := range notes {
		for _, raw := range note.Tags {
			name := strings.TrimSpace(raw)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			tags = append(tags, name)
		}
	}

	return tags
}

// MapNoteTagsToIDs converts the raw tag strings on each note into resolved
// tag ids using the mapping returned by the tag upsert. Only tags present in
// tagIdMap are kept. Notes without an id are skipped.
func MapNoteTagsToIDs(notes []entity.ParsedNote, tagIdMap map[string]uuid.UUID) map[string][]uuid.UUID {
	noteTagMap := make(map[string][]uuid.UUID)

	for _, note := range notes {
		if note.Id == "" {
			continue
		}

		tagIds := make([]uuid.UUID, 0)
		for _, raw := range note.Tags {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if id, ok := tagIdMap[name]; ok {
				tagIds = append(tagIds, id)
			}
		}

		if len(tagIds) > 0 {
			noteTagMap[note.Id] = tagIds
		}
	}

	return noteTagMap
}
