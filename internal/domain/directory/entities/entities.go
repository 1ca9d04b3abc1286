package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

// Gender is the closed set stored in users.gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists every accepted value
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender normalises s and reports whether it is one of Genders
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	return g, g.Valid()
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User is a row of the users table
type User struct {
	UID        uuid.UUID   `gorm:"column:uid;type:uuid;primaryKey" json:"uid"`
	Name       string      `gorm:"column:name;not null" json:"name"`
	Birthdate  time.Time   `gorm:"column:birthdate;type:date;not null" json:"birthdate"`
	Gender     Gender      `gorm:"column:gender;type:text;not null" json:"gender"`
	Location   point.Point `gorm:"column:location;type:point" json:"location"`
	LastOnline *time.Time  `gorm:"column:last_online" json:"last_online,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// AgeAt returns the age in whole years on the given day.
func (u User) AgeAt(t time.Time) int {
	return AgeAt(u.Birthdate, t)
}

// AgeAt computes completed years between birth and t.
func AgeAt(birth, t time.Time) int {
	t = t.UTC()
	birth = birth.UTC()

	age := t.Year() - birth.Year()
	if t.Month() < birth.Month() || (t.Month() == birth.Month() && t.Day() < birth.Day()) {
		age--
	}
	return age
}

// Profile is the registration input
type Profile struct {
	UID       uuid.UUID
	Name      string
	Birthdate time.Time
	Gender    string
	Location  point.Point
}
