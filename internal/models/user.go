package models

import "time"

// User - локальная копия пользователя из сервиса auth
type User struct {
	ID         int64     `json:"-" db:"id"`
	ExternalID string    `json:"userId" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type SavedIdeasResponse struct {
	Ideas []string `json:"ideas"`
}

type SaveIdeaRequest struct {
	Idea string `json:"idea"`
}
