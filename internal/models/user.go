package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID `json:"id"`
	DisplayName       string    `json:"display_name"`
	VerificationLevel string    `json:"verification_level"`
	CreatedAt         time.Time `json:"created_at"`
}
