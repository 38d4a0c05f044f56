package handler

import (
	"time"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/domain"
)

// UserDTO is the public projection of a user.
type UserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
}

// IdentityDTO is the session identity returned by /api/auth/me.
type IdentityDTO struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func toIdentityDTO(id auth.Identity) IdentityDTO {
	return IdentityDTO{UserID: id.UserID, Name: id.Name, Email: id.Email}
}

// EventDTO is the JSON representation of an event.
type EventDTO struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	ImageURL    string   `json:"imageUrl"`
	Creator     string   `json:"creator"`
	CreatedBy   string   `json:"createdBy"`
	Joined      []string `json:"joined"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toEventDTO(e *domain.Event) EventDTO {
	joined := e.Joined
	if joined == nil {
		joined = []string{}
	}
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		Creator:     e.Creator,
		CreatedBy:   e.CreatedBy,
		Joined:      joined,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toEventDTOs(events []domain.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i := range events {
		dtos[i] = toEventDTO(&events[i])
	}
	return dtos
}
