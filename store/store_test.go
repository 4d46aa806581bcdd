package store

import (
	"testing"

	"campus-events/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "E1", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestEventFilterDoc(t *testing.T) {
	assert.Equal(t, bson.M{}, eventFilterDoc(models.EventFilter{}))

	org := primitive.NewObjectID()
	doc := eventFilterDoc(models.EventFilter{
		Status:      models.StatusApproved,
		Stage:       models.StageSubmitted,
		OrganizerID: org,
	})
	assert.Equal(t, bson.M{
		"status":      models.StatusApproved,
		"stage":       models.StageSubmitted,
		"organizerId": org,
	}, doc)
}

func TestBasicInfoBSONOmitsEmptyOwner(t *testing.T) {
	raw, err := bson.Marshal(models.BasicInfo{EventName: "Code Vault", Status: models.StatusPending})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "organizerId")
	assert.Equal(t, "pending", doc["status"])
}
