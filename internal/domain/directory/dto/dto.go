package dto

import (
	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

// BirthdateLayout is the accepted birthdate format
const BirthdateLayout = "2006-01-02"

// RegisterRequest is the body of POST /api/v1/users. The uid is the caller's token subject.
type RegisterRequest struct {
	Name      string      `json:"name"`
	Birthdate string      `json:"birthdate"`
	Gender    string      `json:"gender"`
	Location  point.Point `json:"location"`
}

type RegisterResponse struct {
	UID uuid.UUID `json:"uid"`
}
