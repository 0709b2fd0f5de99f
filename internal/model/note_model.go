package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Note struct {
	// Id is the stable source identifier from the parsed export, not a
	// store-assigned uuid. Upserts are keyed on it.
	Id         string            `gorm:"type:varchar(64);primaryKey"`
	Title      string            `gorm:"type:varchar(255)"`
	Content    string            `gorm:"type:text;not null"`
	Embedding  pgvector.Vector   `gorm:"type:vector(768)"`
	NotebookId *uuid.UUID        `gorm:"type:uuid;index"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
