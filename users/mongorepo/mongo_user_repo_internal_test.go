package mongorepo

import (
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-account-service/users"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapWriteErrorDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	require.ErrorIs(t, mapWriteError(dup), users.ErrDuplicateEmail)

	other := errors.New("connection reset")
	err := mapWriteError(other)
	require.ErrorIs(t, err, other)
	require.NotErrorIs(t, err, users.ErrDuplicateEmail)
}

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &users.User{
		ID:                "65a1b2c3d4e5f60718293a4b",
		Name:              "Ann",
		Email:             "ann@example.com",
		PasswordHash:      "hash",
		VerificationToken: "tok",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	doc, err := toDocument(user)
	require.NoError(t, err)
	require.Equal(t, user, doc.toUser())
}

func TestToDocumentRejectsForeignID(t *testing.T) {
	_, err := toDocument(&users.User{ID: "not-an-object-id"})
	require.ErrorIs(t, err, users.ErrNotFound)
}
