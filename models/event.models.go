package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation statuses owned by BasicInfo
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission stages, in wizard order
const (
	StageBasicInfo    = "basicInfo"
	StageRegistration = "registration"
	StageSubmitted    = "submitted"
)

const DefaultEventType = "Hackathon"

var stageOrder = []string{StageBasicInfo, StageRegistration, StageSubmitted}

// ValidStatus reports whether s is one of the moderation statuses
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ValidStage reports whether s is a known submission stage
func ValidStage(s string) bool {
	return StageRank(s) >= 0
}

// StageRank returns the position of a stage in the wizard, or -1
func StageRank(s string) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// StagesBefore lists the stages an event may advance from to reach target
func StagesBefore(target string) []string {
	rank := StageRank(target)
	if rank <= 0 {
		return nil
	}
	return append([]string(nil), stageOrder[:rank]...)
}

// BasicInfo is the core event record created by the first wizard step
type BasicInfo struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrganizerID     primitive.ObjectID `bson:"organizerId,omitempty" json:"organizerId,omitzero"`
	EventName       string             `bson:"eventName" json:"eventName"`
	Dept            string             `bson:"dept" json:"dept"`
	EventType       string             `bson:"eventType" json:"eventType"`
	Description     string             `bson:"description" json:"description"`
	Poster          string             `bson:"poster" json:"poster"`
	Status          string             `bson:"status" json:"status"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Stage           string             `bson:"stage" json:"stage"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Registration holds the schedule, pricing and venue details of an event
type Registration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID      primitive.ObjectID `bson:"eventId" json:"eventId"`
	OrganizerID  primitive.ObjectID `bson:"organizerId,omitempty" json:"organizerId,omitzero"`
	StartDate    string             `bson:"startDate" json:"startDate"`
	EndDate      string             `bson:"endDate" json:"endDate"`
	StartTime    string             `bson:"startTime" json:"startTime"`
	EndTime      string             `bson:"endTime" json:"endTime"`
	IsFreeEvent  bool               `bson:"isFreeEvent" json:"isFreeEvent"`
	Price        string             `bson:"price" json:"price"`
	IsAllDept    bool               `bson:"isAllDept" json:"isAllDept"`
	SelectedDept []string           `bson:"selectedDept" json:"selectedDept"`
	Venue        string             `bson:"venue" json:"venue"`
	Participants string             `bson:"participants" json:"participants"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Highlight is a single bullet shown on the event page
type Highlight struct {
	Text string `bson:"text" json:"text"`
}

// ScheduleItem is one row of the event timetable
type ScheduleItem struct {
	Time string `bson:"time" json:"time"`
	Task string `bson:"task" json:"task"`
}

// Contact is the contact person plus highlights and schedule of an event
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID     primitive.ObjectID `bson:"eventId" json:"eventId"`
	OrganizerID primitive.ObjectID `bson:"organizerId,omitempty" json:"organizerId,omitzero"`
	Name        string             `bson:"name" json:"name"`
	Phone       string             `bson:"phone" json:"phone"`
	Email       string             `bson:"email" json:"email"`
	Highlights  []Highlight        `bson:"highlights" json:"highlights"`
	Schedule    []ScheduleItem     `bson:"schedule" json:"schedule"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventFilter narrows a BasicInfo listing; empty fields match everything
type EventFilter struct {
	Status      string
	Stage       string
	OrganizerID primitive.ObjectID
}

// ReviewEntry is the joined view of one event. EventDetails and ContactInfo
// hold the matching document or an empty object.
type ReviewEntry struct {
	BasicInfo    BasicInfo   `json:"basicInfo"`
	EventDetails interface{} `json:"eventDetails"`
	ContactInfo  interface{} `json:"contactInfo"`
}
