package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// ListItem is a row of the admin users table.
type ListItem struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Image    string    `json:"image"`
}

// Created is returned after a user is added.
type Created struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// PasswordChanged is returned after a password reset.
type PasswordChanged struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput holds the fields accepted when an admin adds a user.
type CreateInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
	Image    *string `json:"image"`
}

func newListItem(u models.User, defaultImage string) ListItem {
	item := ListItem{
		ID:    u.ID,
		Role:  u.Role.Label(),
		Image: defaultImage,
	}
	if u.Name != nil {
		item.Username = *u.Name
	}
	if u.Image != nil && *u.Image != "" {
		item.Image = *u.Image
	}
	return item
}

func newCreated(u *models.User) *Created {
	return &Created{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}
