package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteTag is the join row linking one note to one tag. The composite primary
// key makes re-asserting an existing pair a no-op.
type NoteTag struct {
	NoteId    string    `gorm:"type:varchar(64);primaryKey"`
	TagId     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (NoteTag) TableName() string {
	return "note_tags"
}
