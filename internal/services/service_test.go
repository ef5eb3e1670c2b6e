package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andklim/contacts-be/internal/database"
	"github.com/andklim/contacts-be/internal/models"
)

// newTestDB opens a private in-memory SQLite database with the schema
// applied. cache=shared keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// mustCreateUser inserts a user with a placeholder password hash.
func mustCreateUser(t *testing.T, users *UserService, username, email string) models.User {
	t.Helper()
	user, err := users.CreateUser(context.Background(), username, email, "$2a$10$placeholderhash", "")
	require.NoError(t, err)
	return user
}

// mustCreateContact inserts a contact for the given owner.
func mustCreateContact(t *testing.T, contacts *ContactService, userID int64, firstName, lastName, email, birthday string) models.Contact {
	t.Helper()
	day, err := models.ParseDate(birthday)
	require.NoError(t, err)
	contact, err := contacts.CreateContact(context.Background(), userID, models.Contact{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: "+1234567890",
		Birthday:    day,
	})
	require.NoError(t, err)
	return contact
}
