package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"edu-classroom/cmd/seed_initial_data/internal/seedmodels"
	"edu-classroom/internal/config"
	"edu-classroom/internal/database"
	"edu-classroom/internal/domain"
	"edu-classroom/internal/logger"
	"edu-classroom/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSeedFilePath = "configs/seed_data/initial_courses.json"
)

type seeder struct {
	tx      domain.TransactionManager
	users   domain.UserRepository
	courses domain.CourseRepository
	lessons domain.LessonRepository
	log     *zap.Logger
}

func main() {
	seedFile := flag.String("file", defaultSeedFilePath, "path to the course seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	s := &seeder{
		tx:      repository.NewTransactionManagerAdapter(db),
		users:   repository.NewSQLXUserRepository(db),
		courses: repository.NewCourseDatabaseAdapter(db),
		lessons: repository.NewLessonDatabaseAdapter(db),
		log:     log,
	}

	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		if err := s.seedAdmin(ctx, email, os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
			log.Fatal("Failed to seed admin user", zap.Error(err))
		}
	}

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	raw, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	var data seedmodels.SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data", zap.Int("courses_loaded", len(data.Courses)))

	existing, err := s.existingCourseNames(ctx)
	if err != nil {
		log.Fatal("Failed to list existing courses", zap.Error(err))
	}

	for _, sc := range data.Courses {
		if existing[strings.ToLower(sc.Name)] {
			log.Info("Course exists, skipping", zap.String("name", sc.Name))
			continue
		}
		if err := s.seedCourse(ctx, sc); err != nil {
			log.Error("Error seeding course, transaction rolled back", zap.String("course", sc.Name), zap.Error(err))
		}
	}
	log.Info("Initial data seeding process completed.")
}

func (s *seeder) existingCourseNames(ctx context.Context) (map[string]bool, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(courses))
	for _, c := range courses {
		names[strings.ToLower(c.Name)] = true
	}
	return names, nil
}

// seedCourse stores a course and its lessons in one transaction.
func (s *seeder) seedCourse(ctx context.Context, sc seedmodels.SeedCourse) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course := domain.NewCourse(sc.Name, sc.Abstract)
		if err := s.courses.CreateCourse(ctx, course); err != nil {
			return fmt.Errorf("failed to save course %s: %w", sc.Name, err)
		}
		for _, sl := range sc.Lessons {
			lesson := domain.NewLesson(course.ID, sl.Name, sl.Abstract)
			if err := s.lessons.CreateLesson(ctx, lesson); err != nil {
				return fmt.Errorf("failed to save lesson %s: %w", sl.Name, err)
			}
		}
		s.log.Info("Created course", zap.String("id", course.ID), zap.String("name", course.Name), zap.Int("lessons", len(sc.Lessons)))
		return nil
	})
}

// seedAdmin creates an ADMIN account, or promotes the existing one with that email.
func (s *seeder) seedAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		if user.Role == domain.RoleAdmin {
			s.log.Info("Admin user exists", zap.String("email", email))
			return nil
		}
		user.Role = domain.RoleAdmin
		s.log.Info("Promoting existing user to admin", zap.String("email", email))
		return s.users.UpdateUser(ctx, user)
	}

	if len(password) < 8 {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := domain.NewUser(email, "Administrator")
	admin.Role = domain.RoleAdmin
	admin.PasswordHash = string(hash)
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return err
	}
	s.log.Info("Created admin user", zap.String("id", admin.ID), zap.String("email", email))
	return nil
}
