// Package store persists events, accounts and enrollments.
package store

import (
	"context"
	"errors"

	"campus-events/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrDuplicate = errors.New("duplicate document")
)

// ParseID converts a hex string into an ObjectID, reporting ErrInvalidID
// for anything that is not a well-formed identifier.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// EventStore covers the BasicInfo, Registration and Contact collections.
type EventStore interface {
	InsertBasicInfo(ctx context.Context, info *models.BasicInfo) (primitive.ObjectID, error)
	InsertRegistration(ctx context.Context, reg *models.Registration) (primitive.ObjectID, error)
	InsertContact(ctx context.Context, contact *models.Contact) (primitive.ObjectID, error)

	ListBasicInfo(ctx context.Context, filter models.EventFilter) ([]models.BasicInfo, error)
	FindBasicInfo(ctx context.Context, id primitive.ObjectID) (*models.BasicInfo, error)
	// FindRegistration and FindContact return the oldest document
	// referencing eventID, or ErrNotFound.
	FindRegistration(ctx context.Context, eventID primitive.ObjectID) (*models.Registration, error)
	FindContact(ctx context.Context, eventID primitive.ObjectID) (*models.Contact, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, reason string) (*models.BasicInfo, error)
	// AdvanceStage moves an event forward to stage. Events already at or
	// past stage are left alone. A missing event yields ErrNotFound.
	AdvanceStage(ctx context.Context, id primitive.ObjectID, stage string) error

	Ping(ctx context.Context) error
}

// AccountStore keeps one collection per role.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *models.Account) (primitive.ObjectID, error)
	FindAccountByEmail(ctx context.Context, role, email string) (*models.Account, error)
	FindAccountByID(ctx context.Context, role string, id primitive.ObjectID) (*models.Account, error)
}

type EnrollmentStore interface {
	InsertEnrollment(ctx context.Context, e *models.Enrollment) (primitive.ObjectID, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Enrollment, error)
}
