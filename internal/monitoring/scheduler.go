package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/models"
)

// digestSpec fires every morning at 08:00 server time.
const digestSpec = "0 8 * * *"

type userLister interface {
	ListConfirmedUsers(ctx context.Context) ([]models.User, error)
}

type birthdaySource interface {
	UpcomingBirthdays(ctx context.Context, userID int64, skip, limit int) ([]models.Contact, error)
}

type digestMailer interface {
	SendBirthdayDigest(email, username string, lines []string)
}

// Scheduler runs the daily birthday-digest job.
type Scheduler struct {
	users    userLister
	contacts birthdaySource
	mailer   digestMailer
	cron     *cron.Cron
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(users userLister, contacts birthdaySource, mailer digestMailer) *Scheduler {
	return &Scheduler{
		users:    users,
		contacts: contacts,
		mailer:   mailer,
		cron:     cron.New(),
	}
}

// Run registers the digest job and starts the cron loop.
func (s *Scheduler) Run() {
	log.Info().Str("spec", digestSpec).Msg("Starting birthday digest scheduler")
	if _, err := s.cron.AddFunc(digestSpec, s.sendDigests); err != nil {
		log.Error().Err(err).Msg("Failed to schedule birthday digest")
		return
	}
	s.cron.Start()
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Stopped birthday digest scheduler")
}

// sendDigests mails each confirmed user the contacts with birthdays in the
// next seven days. Per-user failures are logged and do not stop the run.
func (s *Scheduler) sendDigests() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := s.users.ListConfirmedUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users for birthday digest")
		return
	}

	for _, user := range users {
		contacts, err := s.contacts.UpcomingBirthdays(ctx, user.ID, 0, 50)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to query upcoming birthdays")
			continue
		}
		if len(contacts) == 0 {
			continue
		}

		lines := make([]string, 0, len(contacts))
		for _, c := range contacts {
			lines = append(lines, fmt.Sprintf("- %s %s (%s)", c.FirstName, c.LastName, c.Birthday.MonthDay()))
		}
		go s.mailer.SendBirthdayDigest(user.Email, user.Username, lines)
	}
}
