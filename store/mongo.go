package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-events/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	BasicInfoCollection    = "basicinfos"
	RegistrationCollection = "registrations"
	ContactCollection      = "contacts"
	EnrollmentCollection   = "enrollments"
)

var accountCollections = map[string]string{
	models.RoleOrganizer: "organizers",
	models.RoleStudent:   "students",
	models.RoleAdmin:     "admins",
}

// MongoStore implements EventStore, AccountStore and EnrollmentStore.
type MongoStore struct {
	client        *mongo.Client
	BasicInfos    *mongo.Collection
	Registrations *mongo.Collection
	Contacts      *mongo.Collection
	Enrollments   *mongo.Collection
	accounts      map[string]*mongo.Collection
}

// NewMongoStore binds the store to the named database
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	accounts := make(map[string]*mongo.Collection, len(accountCollections))
	for role, name := range accountCollections {
		accounts[role] = db.Collection(name)
	}
	return &MongoStore{
		client:        client,
		BasicInfos:    db.Collection(BasicInfoCollection),
		Registrations: db.Collection(RegistrationCollection),
		Contacts:      db.Collection(ContactCollection),
		Enrollments:   db.Collection(EnrollmentCollection),
		accounts:      accounts,
	}
}

// EnsureIndexes creates the lookup indexes used by the review join and the
// uniqueness constraints on accounts and enrollments. Registration and
// Contact are deliberately not unique per event.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	byEvent := mongo.IndexModel{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := s.Registrations.Indexes().CreateOne(ctx, byEvent); err != nil {
		return fmt.Errorf("registration index: %w", err)
	}
	if _, err := s.Contacts.Indexes().CreateOne(ctx, byEvent); err != nil {
		return fmt.Errorf("contact index: %w", err)
	}
	for role, coll := range s.accounts {
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("%s email index: %w", role, err)
		}
	}
	_, err := s.Enrollments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("enrollment index: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id
}

func (s *MongoStore) InsertBasicInfo(ctx context.Context, info *models.BasicInfo) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	info.ID = primitive.NewObjectID()
	info.CreatedAt, info.UpdatedAt = now, now
	res, err := s.BasicInfos.InsertOne(ctx, info)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert basic info: %w", err)
	}
	return insertedID(res), nil
}

func (s *MongoStore) InsertRegistration(ctx context.Context, reg *models.Registration) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	reg.ID = primitive.NewObjectID()
	reg.CreatedAt, reg.UpdatedAt = now, now
	res, err := s.Registrations.InsertOne(ctx, reg)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert registration: %w", err)
	}
	return insertedID(res), nil
}

func (s *MongoStore) InsertContact(ctx context.Context, contact *models.Contact) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt, contact.UpdatedAt = now, now
	res, err := s.Contacts.InsertOne(ctx, contact)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert contact: %w", err)
	}
	return insertedID(res), nil
}

func eventFilterDoc(f models.EventFilter) bson.M {
	doc := bson.M{}
	if f.Status != "" {
		doc["status"] = f.Status
	}
	if f.Stage != "" {
		doc["stage"] = f.Stage
	}
	if !f.OrganizerID.IsZero() {
		doc["organizerId"] = f.OrganizerID
	}
	return doc
}

func (s *MongoStore) ListBasicInfo(ctx context.Context, filter models.EventFilter) ([]models.BasicInfo, error) {
	cursor, err := s.BasicInfos.Find(ctx, eventFilterDoc(filter))
	if err != nil {
		return nil, fmt.Errorf("find basic info: %w", err)
	}
	defer cursor.Close(ctx)

	infos := []models.BasicInfo{}
	for cursor.Next(ctx) {
		var info models.BasicInfo
		if err := cursor.Decode(&info); err != nil {
			return nil, fmt.Errorf("decode basic info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read basic info: %w", err)
	}
	return infos, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := coll.FindOne(ctx, filter, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return nil
}

func (s *MongoStore) FindBasicInfo(ctx context.Context, id primitive.ObjectID) (*models.BasicInfo, error) {
	var info models.BasicInfo
	if err := findOne(ctx, s.BasicInfos, bson.M{"_id": id}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *MongoStore) FindRegistration(ctx context.Context, eventID primitive.ObjectID) (*models.Registration, error) {
	var reg models.Registration
	if err := findOne(ctx, s.Registrations, bson.M{"eventId": eventID}, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *MongoStore) FindContact(ctx context.Context, eventID primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	if err := findOne(ctx, s.Contacts, bson.M{"eventId": eventID}, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, reason string) (*models.BasicInfo, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	if reason != "" {
		update["$set"].(bson.M)["rejectionReason"] = reason
	} else {
		update["$unset"] = bson.M{"rejectionReason": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var info models.BasicInfo
	err := s.BasicInfos.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&info)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return &info, nil
}

func (s *MongoStore) AdvanceStage(ctx context.Context, id primitive.ObjectID, stage string) error {
	from := models.StagesBefore(stage)
	if len(from) == 0 {
		return nil
	}
	res, err := s.BasicInfos.UpdateOne(ctx,
		bson.M{"_id": id, "stage": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"stage": stage, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("advance stage: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	count, err := s.BasicInfos.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("advance stage: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) accountCollection(role string) (*mongo.Collection, error) {
	coll, ok := s.accounts[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return coll, nil
}

func (s *MongoStore) CreateAccount(ctx context.Context, acc *models.Account) (primitive.ObjectID, error) {
	coll, err := s.accountCollection(acc.Role)
	if err != nil {
		return primitive.NilObjectID, err
	}
	acc.ID = primitive.NewObjectID()
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	acc.CreatedAt = time.Now().UTC()
	res, err := coll.InsertOne(ctx, acc)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", acc.Role, err)
	}
	return insertedID(res), nil
}

func (s *MongoStore) FindAccountByEmail(ctx context.Context, role, email string) (*models.Account, error) {
	coll, err := s.accountCollection(role)
	if err != nil {
		return nil, err
	}
	var acc models.Account
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := findOne(ctx, coll, filter, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *MongoStore) FindAccountByID(ctx context.Context, role string, id primitive.ObjectID) (*models.Account, error) {
	coll, err := s.accountCollection(role)
	if err != nil {
		return nil, err
	}
	var acc models.Account
	if err := findOne(ctx, coll, bson.M{"_id": id}, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *MongoStore) InsertEnrollment(ctx context.Context, e *models.Enrollment) (primitive.ObjectID, error) {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	res, err := s.Enrollments.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert enrollment: %w", err)
	}
	return insertedID(res), nil
}

func (s *MongoStore) ListEnrollmentsByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Enrollments.Find(ctx, bson.M{"studentId": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	enrollments := []models.Enrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("read enrollments: %w", err)
	}
	return enrollments, nil
}
