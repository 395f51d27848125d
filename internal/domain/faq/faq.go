package faq

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Question string `gorm:"column:question;type:text;not null" json:"question"`
	Answer   string `gorm:"column:answer;type:text;not null" json:"answer"`
}

func (Entry) TableName() string {
	return "clinical.faq_entries"
}

type CreateEntryCommand struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type UpdateEntryCommand struct {
	ID       *uuid.UUID `json:"id"`
	Question *string    `json:"question"`
	Answer   *string    `json:"answer"`
}
