package dto

import (
	"time"

	"github.com/bikrans/platform-api/internal/models"
)

// ProjectRef is a project membership as shown inside a user payload.
type ProjectRef struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// UserDTO represents a user in API responses. It never carries the password
// hash or the login PIN.
type UserDTO struct {
	ID             uint64       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Role           string       `json:"role"`
	Status         string       `json:"status"`
	Age            *int         `json:"age,omitempty"`
	Gender         *string      `json:"gender,omitempty"`
	WhatsappNumber *string      `json:"whatsapp_number,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Projects       []ProjectRef `json:"projects,omitempty"`
}

// UserRef is the minimal user shape embedded in task payloads.
type UserRef struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ToProjectRefs converts project models to membership refs.
func ToProjectRefs(projects []models.Project) []ProjectRef {
	refs := make([]ProjectRef, 0, len(projects))
	for _, p := range projects {
		refs = append(refs, ProjectRef{ID: p.ID, Code: p.Code, Name: p.Name})
	}
	return refs
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           string(user.Role),
		Status:         string(user.Status),
		Age:            user.Age,
		Gender:         user.Gender,
		WhatsappNumber: user.WhatsappNumber,
		CreatedAt:      user.CreatedAt,
	}
}

// ToUserDTOWithProjects converts a User model plus memberships.
func ToUserDTOWithProjects(user models.User, projects []models.Project) UserDTO {
	d := ToUserDTO(user)
	d.Projects = ToProjectRefs(projects)
	return d
}

// ToUserRef converts a User model to its embedded shape.
func ToUserRef(user models.User) UserRef {
	return UserRef{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}

// ToUserDTOs converts a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}
