package resolver

import (
	"reflect"
	"testing"

	"notes-ingest/internal/entity"
)

func TestResolveNotebooks(t *testing.T) {
	tests := []struct {
		name  string
		notes []entity.ParsedNote
		want  []entity.NotebookUpsert
	}{
		{
			name:  "empty batch",
			notes: nil,
			want:  []entity.NotebookUpsert{},
		},
		{
			name: "first-seen order, deduplicated",
			notes: []entity.ParsedNote{
				{Id: "n1", Notebook: "Work"},
				{Id: "n2", Notebook: "Personal"},
				{Id: "n3", Notebook: "Work"},
			},
			want: []entity.NotebookUpsert{{Name: "Work"}, {Name: "Personal"}},
		},
		{
			name: "metadata fallback",
			notes: []entity.ParsedNote{
				{Id: "n1", Metadata: map[string]interface{}{"notebook": "Archive"}},
			},
			want: []entity.NotebookUpsert{{Name: "Archive"}},
		},
		{
			name: "direct field wins over metadata",
			notes: []entity.ParsedNote{
				{Id: "n1", Notebook: "Work", Metadata: map[string]interface{}{"notebook": "Archive"}},
			},
			want: []entity.NotebookUpsert{{Name: "Work"}},
		},
		{
			name: "notes without notebooks",
			notes: []entity.ParsedNote{
				{Id: "n1"},
				{Id: "n2", Metadata: map[string]interface{}{"notebook": 42}},
			},
			want: []entity.NotebookUpsert{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveNotebooks(tt.notes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveNotebooks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotebookLabel(t *testing.T) {
	note := entity.ParsedNote{Notebook: "Work"}
	if got := NotebookLabel(note); got != "Work" {
		t.Errorf("NotebookLabel() = %q, want %q", got, "Work")
	}

	note = entity.ParsedNote{Metadata: map[string]interface{}{"notebook": "Archive"}}
	if got := NotebookLabel(note); got != "Archive" {
		t.Errorf("NotebookLabel() = %q, want %q", got, "Archive")
	}

	if got := NotebookLabel(entity.ParsedNote{}); got != "" {
		t.Errorf("NotebookLabel() = %q, want empty", got)
	}
}
