package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleOrganizer = "organizer"
	RoleStudent   = "student"
	RoleAdmin     = "admin"
)

// Account is an organizer, student or admin identity. Each role lives in
// its own collection.
type Account struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Dept      string             `bson:"dept,omitempty" json:"dept,omitempty"`
	RollNo    string             `bson:"rollNo,omitempty" json:"rollNo,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Enrollment records a student signing up for an approved event
type Enrollment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
