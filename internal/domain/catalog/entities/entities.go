package entities

import "github.com/google/uuid"

// Activity is a row of the activities table
type Activity struct {
	ActivityName string    `gorm:"column:activity_name;not null" json:"activity_name"`
	ActivityID   uuid.UUID `gorm:"column:activity_id;type:uuid;primaryKey" json:"activity_id"`
}

func (Activity) TableName() string {
	return "activities"
}
