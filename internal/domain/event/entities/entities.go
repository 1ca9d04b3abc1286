package entities

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

// GenderSet is the events.pref_genders column: a comma separated subset of genders.
type GenderSet []dirent.Gender

// ParseGenderSet parses "female,male". Empty input yields an empty set.
func ParseGenderSet(s string) (GenderSet, error) {
	var set GenderSet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		g, ok := dirent.ParseGender(part)
		if !ok {
			return nil, fmt.Errorf("unknown gender %q", strings.TrimSpace(part))
		}
		set = append(set, g)
	}
	return set.normalize(), nil
}

func (s GenderSet) normalize() GenderSet {
	seen := make(map[dirent.Gender]struct{}, len(s))
	out := make(GenderSet, 0, len(s))
	for _, g := range s {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s GenderSet) Contains(g dirent.Gender) bool {
	for _, v := range s {
		if v == g {
			return true
		}
	}
	return false
}

func (s GenderSet) String() string {
	parts := make([]string, len(s))
	for i, g := range s {
		parts[i] = string(g)
	}
	return strings.Join(parts, ",")
}

// Value implements driver.Valuer.
func (s GenderSet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *GenderSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("pref_genders: unsupported source %T", src)
	}

	set, err := ParseGenderSet(raw)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// Event is a row of the events table
type Event struct {
	EventID     uuid.UUID   `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ActivityID  uuid.UUID   `gorm:"column:activity_id;type:uuid;not null" json:"activity_id"`
	InitiatedBy uuid.UUID   `gorm:"column:initiated_by;type:uuid;not null" json:"initiated_by"`
	Location    point.Point `gorm:"column:location;type:point" json:"location"`
	MinAge      int         `gorm:"column:min_age" json:"min_age"`
	MaxAge      int         `gorm:"column:max_age" json:"max_age"`
	PrefGenders GenderSet   `gorm:"column:pref_genders;type:text" json:"pref_genders"`
	Description string      `gorm:"column:description" json:"description"`
	IsOpen      bool        `gorm:"column:is_open" json:"is_open"`
	InitiatedOn time.Time   `gorm:"column:initiated_on" json:"initiated_on"`
}

func (Event) TableName() string {
	return "events"
}

// Admits reports whether a candidate of the given age and gender is eligible.
func (e Event) Admits(age int, gender dirent.Gender) bool {
	return age >= e.MinAge && age <= e.MaxAge && e.PrefGenders.Contains(gender)
}

// Constraints is the createEvent input besides initiator and activity.
type Constraints struct {
	Location    point.Point
	MinAge      int
	MaxAge      int
	PrefGenders []string
	Description string
}

// OpenQuery selects open events a requester is eligible for.
type OpenQuery struct {
	Requester  uuid.UUID
	Age        int
	Gender     dirent.Gender
	ActivityID *uuid.UUID
	Within     *point.Box
}

// Matches applies every OpenQuery condition to e.
func (q OpenQuery) Matches(e Event) bool {
	if !e.IsOpen || e.InitiatedBy == q.Requester {
		return false
	}
	if q.ActivityID != nil && e.ActivityID != *q.ActivityID {
		return false
	}
	if q.Within != nil && !q.Within.Contains(e.Location) {
		return false
	}
	return e.Admits(q.Age, q.Gender)
}

// FilterCriteria is the caller-facing findOpen input.
type FilterCriteria struct {
	Requester  uuid.UUID
	ActivityID *uuid.UUID
	Within     *point.Box
}
