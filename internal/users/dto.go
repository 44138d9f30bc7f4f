package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
)

// UserDTO is the transport shape returned to clients.
type UserDTO struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	PhotoURL  *string          `json:"photoUrl,omitempty"`
	Role      enums.UserRole   `json:"role"`
	Status    enums.UserStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// UpsertUserInput carries the self-registration payload.
type UpsertUserInput struct {
	Email    string
	Name     string
	PhotoURL *string
	Status   enums.UserStatus
}

// UpsertResult reports the stored user and whether it was just created.
type UpsertResult struct {
	User    *UserDTO `json:"user"`
	Created bool     `json:"created"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (in UpsertUserInput) toModel() *models.User {
	return &models.User{
		Email:    in.Email,
		Name:     in.Name,
		PhotoURL: in.PhotoURL,
		Role:     enums.UserRoleBuyer,
		Status:   in.Status,
	}
}
