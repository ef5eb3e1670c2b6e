package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/andklim/contacts-be/internal/apperr"
	"github.com/andklim/contacts-be/internal/models"
)

// ContactServiceProvider defines the interface for contact services. Every
// operation is scoped to the owning user: ownership is part of the lookup
// predicate itself, so a contact owned by someone else is indistinguishable
// from a missing one.
type ContactServiceProvider interface {
	GetContacts(ctx context.Context, userID int64, skip, limit int, filter models.ContactFilter) ([]models.Contact, error)
	GetContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error)
	CreateContact(ctx context.Context, userID int64, contact models.Contact) (models.Contact, error)
	UpdateContact(ctx context.Context, userID, contactID int64, update models.ContactUpdate) (models.Contact, error)
	RemoveContact(ctx context.Context, userID, contactID int64) (models.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64, skip, limit int) ([]models.Contact, error)
}

// ContactService provides business logic for contact management.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

const contactColumns = "id, first_name, last_name, email, phone_number, birthday, extra_info, user_id, created_at"

// scanContact is a helper to scan a contact from a row or rows object.
func scanContact(scanner interface{ Scan(...interface{}) error }) (models.Contact, error) {
	var contact models.Contact
	var birthday string
	var extra sql.NullString

	err := scanner.Scan(
		&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.PhoneNumber, &birthday, &extra, &contact.UserID, &contact.CreatedAt,
	)
	if err != nil {
		return contact, err
	}

	contact.Birthday, err = models.ParseDate(birthday)
	if err != nil {
		return contact, err
	}
	contact.ExtraInfo = extra.String
	return contact, nil
}

// GetContacts lists a user's contacts with optional case-insensitive
// substring filters, ANDed together, paginated via skip/limit.
func (s *ContactService) GetContacts(ctx context.Context, userID int64, skip, limit int, filter models.ContactFilter) ([]models.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts WHERE user_id = ?"
	args := []interface{}{userID}

	for _, f := range []struct {
		column, value string
	}{
		{"first_name", filter.FirstName},
		{"last_name", filter.LastName},
		{"email", filter.Email},
	} {
		if f.value != "" {
			query += fmt.Sprintf(" AND LOWER(%s) LIKE '%%' || ? || '%%'", f.column)
			args = append(args, strings.ToLower(f.value))
		}
	}
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	return s.queryContacts(ctx, query, args...)
}

// GetContactByID retrieves a contact owned by the given user.
func (s *ContactService) GetContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ? AND user_id = ?", contactID, userID)
	contact, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Contact{}, apperr.New(apperr.CodeContactNotFound, "contact is not found")
		}
		return models.Contact{}, err
	}
	return contact, nil
}

// CreateContact persists a new contact for the user. The (owner, email)
// uniqueness is enforced by the database at write time, not pre-checked, so
// concurrent duplicates resolve to exactly one success and one Conflict.
func (s *ContactService) CreateContact(ctx context.Context, userID int64, contact models.Contact) (models.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, extra_info, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
		contact.Birthday.String(), nullable(contact.ExtraInfo), userID)
	if err != nil {
		return models.Contact{}, translateUnique(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Contact{}, err
	}
	return s.GetContactByID(ctx, userID, id)
}

// UpdateContact applies only the provided fields to a contact owned by the
// user. Changing the email to one already used by another of the user's
// contacts yields a Conflict.
func (s *ContactService) UpdateContact(ctx context.Context, userID, contactID int64, update models.ContactUpdate) (models.Contact, error) {
	// The ownership check is part of this lookup.
	if _, err := s.GetContactByID(ctx, userID, contactID); err != nil {
		return models.Contact{}, err
	}

	var sets []string
	var args []interface{}
	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.FirstName != nil {
		addSet("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		addSet("last_name", *update.LastName)
	}
	if update.Email != nil {
		addSet("email", *update.Email)
	}
	if update.PhoneNumber != nil {
		addSet("phone_number", *update.PhoneNumber)
	}
	if update.Birthday != nil {
		addSet("birthday", update.Birthday.String())
	}
	if update.ExtraInfo != nil {
		addSet("extra_info", *update.ExtraInfo)
	}

	if len(sets) > 0 {
		args = append(args, contactID, userID)
		query := "UPDATE contacts SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return models.Contact{}, translateUnique(err)
		}
	}
	return s.GetContactByID(ctx, userID, contactID)
}

// RemoveContact deletes a contact owned by the user and returns the prior
// value.
func (s *ContactService) RemoveContact(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	contact, err := s.GetContactByID(ctx, userID, contactID)
	if err != nil {
		return models.Contact{}, err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND user_id = ?", contactID, userID); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

// UpcomingBirthdays lists the user's contacts whose birthday month-day falls
// within the inclusive 7-day forward window starting today.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID int64, skip, limit int) ([]models.Contact, error) {
	return s.upcomingBirthdaysFrom(ctx, userID, skip, limit, time.Now())
}

// upcomingBirthdaysFrom implements the window query relative to an explicit
// "today". The birthday's year is ignored: only the month-day is compared.
// When the window crosses year-end it becomes the union of [today, 12-31]
// and [01-01, today+7d].
func (s *ContactService) upcomingBirthdaysFrom(ctx context.Context, userID int64, skip, limit int, today time.Time) ([]models.Contact, error) {
	start := today.Format("01-02")
	end := today.AddDate(0, 0, 7).Format("01-02")

	query := "SELECT " + contactColumns + " FROM contacts WHERE user_id = ? AND "
	args := []interface{}{userID}

	if start <= end {
		query += "strftime('%m-%d', birthday) BETWEEN ? AND ?"
		args = append(args, start, end)
	} else {
		// Window wraps across Dec-31.
		query += "(strftime('%m-%d', birthday) >= ? OR strftime('%m-%d', birthday) <= ?)"
		args = append(args, start, end)
	}
	query += " ORDER BY strftime('%m-%d', birthday) LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	return s.queryContacts(ctx, query, args...)
}

func (s *ContactService) queryContacts(ctx context.Context, query string, args ...interface{}) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
