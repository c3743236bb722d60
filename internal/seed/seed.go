package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/activity"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/queue"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

// Seeder loads development fixtures. Every step is idempotent: services,
// admin and students upsert on their natural keys, queue entries respect the
// one-active-entry rule and activities are only written into an empty table.
type Seeder struct {
	users      user.Repository
	services   catalog.Repository
	queue      queue.Repository
	activities activity.Repository
	logger     *slog.Logger
}

func New(users user.Repository, services catalog.Repository, q queue.Repository,
	activities activity.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:      users,
		services:   services,
		queue:      q,
		activities: activities,
		logger:     logger,
	}
}

// Run executes all seed steps in dependency order.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Services(ctx); err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	if err := s.Admin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := s.Students(ctx); err != nil {
		return fmt.Errorf("seed students: %w", err)
	}
	if err := s.QueueEntries(ctx); err != nil {
		return fmt.Errorf("seed queue entries: %w", err)
	}
	if err := s.Activities(ctx); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	return nil
}

var defaultServices = []catalog.Service{
	{Name: "Registrar", Description: "Enrollment, transcripts and records", EstimatedTime: 15},
	{Name: "Cashier", Description: "Tuition and fee payments", EstimatedTime: 10},
	{Name: "Library", Description: "Borrowing and account clearance", EstimatedTime: 5},
	{Name: "Guidance Office", Description: "Counseling appointments", EstimatedTime: 30},
	{Name: "IT Helpdesk", Description: "Accounts, portals and campus Wi-Fi", EstimatedTime: 20},
}

func (s *Seeder) Services(ctx context.Context) error {
	for i := range defaultServices {
		svc := defaultServices[i]
		svc.IsActive = true
		if err := s.services.UpsertByName(ctx, &svc); err != nil {
			return err
		}
	}
	s.logger.Info("services seeded", "count", len(defaultServices))
	return nil
}

func (s *Seeder) Admin(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &user.User{
		StudentCode: "ADMIN001",
		Email:       "admin@school.edu",
		Password:    string(hash),
		Name:        "System Administrator",
		Role:        user.RoleAdmin,
		IsActive:    true,
	}
	if err := s.users.UpsertByEmail(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("admin seeded", "email", admin.Email)
	return nil
}

var studentFixtures = []struct {
	name   string
	course string
	year   int
}{
	{"Alice Banda", "CS", 2},
	{"Brian Phiri", "EE", 1},
	{"Chipo Mwale", "CS", 3},
	{"Daniel Zulu", "BA", 2},
	{"Esther Tembo", "ME", 4},
	{"Frank Lungu", "CS", 1},
	{"Grace Sakala", "EE", 3},
	{"Henry Mbewe", "BA", 1},
}

func (s *Seeder) Students(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for i, f := range studentFixtures {
		// Deterministic codes keep reruns idempotent.
		code := fmt.Sprintf("%02d%s%04d", f.year, f.course[:1], 1000+i)
		st := &user.User{
			StudentCode: code,
			Email:       fmt.Sprintf("student%d@school.edu", i+1),
			Password:    string(hash),
			Name:        f.name,
			Course:      f.course,
			Year:        f.year,
			Role:        user.RoleStudent,
			IsActive:    true,
		}
		if err := s.users.UpsertByStudentCode(ctx, st); err != nil {
			return err
		}
	}

	s.logger.Info("students seeded", "count", len(studentFixtures))
	return nil
}

// QueueEntries puts a few students into the first active service. Students
// who already hold an active entry are skipped rather than erroring the run.
func (s *Seeder) QueueEntries(ctx context.Context) error {
	services, err := s.services.GetAll(ctx, true)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		s.logger.Warn("no active services, skipping queue entry seed")
		return nil
	}
	svc := services[0]

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return err
	}

	seeded := 0
	for _, u := range users {
		if u.Role != user.RoleStudent || !u.IsActive {
			continue
		}
		if seeded >= 3 {
			break
		}

		if _, err := s.queue.ActiveByUser(ctx, u.ID); err == nil {
			continue
		} else if !errors.Is(err, queue.ErrEntryNotFound) {
			return err
		}

		e := &queue.Entry{
			UserID:    u.ID,
			ServiceID: svc.ID,
			Notes:     "seeded entry",
		}
		if err := s.queue.Enqueue(ctx, e, svc.EstimatedTime); err != nil {
			if errors.Is(err, queue.ErrDuplicateActiveEntry) {
				continue
			}
			return err
		}
		seeded++
	}

	s.logger.Info("queue entries seeded", "service", svc.Name, "count", seeded)
	return nil
}

// Activities writes sample audit rows only when the table is empty, so the
// seeded feed is not duplicated on reruns.
func (s *Seeder) Activities(ctx context.Context) error {
	count, err := s.activities.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("activities already present, skipping", "count", count)
		return nil
	}

	fixtures := []activity.Activity{
		{Type: "SYSTEM", Description: "System initialized"},
		{Type: "SEED", Description: fmt.Sprintf("Seeded %s services and demo accounts", helpers.GetCurrentAcademicYear())},
	}
	for i := range fixtures {
		if err := s.activities.Create(ctx, &fixtures[i]); err != nil {
			return err
		}
	}

	s.logger.Info("activities seeded", "count", len(fixtures))
	return nil
}
