package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/logger"
)

type seedCourse struct {
	Code        string `yaml:"code"`
	Title       string `yaml:"title"`
	Credits     int    `yaml:"credits"`
	Instructor  string `yaml:"instructor"`
	Description string `yaml:"description"`
}

type seedTerm struct {
	Name    string   `yaml:"name"`
	Courses []string `yaml:"courses"`
}

type seedProgram struct {
	Code          string     `yaml:"code"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Level         string     `yaml:"level"`
	DurationTerms int        `yaml:"duration_terms"`
	TotalCredits  int        `yaml:"total_credits"`
	Terms         []seedTerm `yaml:"terms"`
}

type seedAdmin struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
}

type seedFile struct {
	Admin    *seedAdmin    `yaml:"admin"`
	Courses  []seedCourse  `yaml:"courses"`
	Programs []seedProgram `yaml:"programs"`
}

func main() {
	var path string
	flag.StringVar(&path, "file", "scripts/seed/catalog.yaml", "Path to the YAML seed file")
	flag.Parse()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}
	seed, err := parseSeed(data)
	if err != nil {
		log.Fatalf("parse seed file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	s := &seeder{
		users:      repository.NewUserRepository(db),
		courses:    repository.NewCourseRepository(db),
		programs:   repository.NewProgramRepository(db),
		structures: repository.NewProgramStructureRepository(db),
		logger:     logr,
	}
	if err := s.run(context.Background(), seed, os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	logr.Info("seed complete", zap.Int("courses", len(seed.Courses)), zap.Int("programs", len(seed.Programs)))
}

// parseSeed decodes and checks a seed document. Every course referenced by a
// program term must be declared in the courses section.
func parseSeed(data []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(seed.Courses))
	for _, c := range seed.Courses {
		code := strings.TrimSpace(c.Code)
		if code == "" {
			return nil, errors.New("course without code")
		}
		if c.Credits < 0 {
			return nil, fmt.Errorf("course %s: negative credits", code)
		}
		known[code] = struct{}{}
	}
	for _, p := range seed.Programs {
		if strings.TrimSpace(p.Code) == "" {
			return nil, errors.New("program without code")
		}
		for _, term := range p.Terms {
			if strings.TrimSpace(term.Name) == "" {
				return nil, fmt.Errorf("program %s: term without name", p.Code)
			}
			for _, code := range term.Courses {
				if _, ok := known[code]; !ok {
					return nil, fmt.Errorf("program %s: unknown course %s", p.Code, code)
				}
			}
		}
	}
	return &seed, nil
}

// seedID keeps identifiers stable across runs so a second run only hits
// duplicates.
func seedID(kind, code string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("sis:"+kind+":"+code)).String()
}

type userCreator interface {
	Create(ctx context.Context, user *models.User) error
}

type courseCreator interface {
	Create(ctx context.Context, course *models.Course) error
}

type programCreator interface {
	Create(ctx context.Context, program *models.Program) error
}

type structureWriter interface {
	Upsert(ctx context.Context, structure *models.ProgramStructure) error
}

type seeder struct {
	users      userCreator
	courses    courseCreator
	programs   programCreator
	structures structureWriter
	logger     *zap.Logger
}

func (s *seeder) run(ctx context.Context, seed *seedFile, adminPassword string) error {
	if seed.Admin != nil && adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &models.User{
			ID:           seedID("user", strings.ToLower(seed.Admin.Email)),
			Email:        strings.ToLower(seed.Admin.Email),
			PasswordHash: string(hash),
			FullName:     seed.Admin.FullName,
			Role:         models.RoleAdmin,
			Active:       true,
		}
		if err := skipDuplicate(s.users.Create(ctx, admin)); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
	}

	byCode := make(map[string]models.Course, len(seed.Courses))
	for _, c := range seed.Courses {
		course := models.Course{
			ID:          seedID("course", c.Code),
			Code:        c.Code,
			Title:       c.Title,
			Credits:     c.Credits,
			Instructor:  c.Instructor,
			Description: c.Description,
		}
		if err := skipDuplicate(s.courses.Create(ctx, &course)); err != nil {
			return fmt.Errorf("create course %s: %w", c.Code, err)
		}
		byCode[c.Code] = course
	}

	for _, p := range seed.Programs {
		program := models.Program{
			ID:            seedID("program", p.Code),
			Code:          p.Code,
			Name:          p.Name,
			Description:   p.Description,
			Level:         p.Level,
			DurationTerms: p.DurationTerms,
			TotalCredits:  p.TotalCredits,
			Active:        true,
		}
		if err := skipDuplicate(s.programs.Create(ctx, &program)); err != nil {
			return fmt.Errorf("create program %s: %w", p.Code, err)
		}
		if len(p.Terms) == 0 {
			continue
		}

		structure := &models.ProgramStructure{ProgramID: program.ID}
		for _, term := range p.Terms {
			st := models.StructureTerm{TermName: term.Name}
			for i, code := range term.Courses {
				course := byCode[code]
				st.Courses = append(st.Courses, models.CourseRef{
					CourseID:    course.ID,
					CourseCode:  course.Code,
					CourseTitle: course.Title,
					Order:       i + 1,
				})
			}
			structure.Terms = append(structure.Terms, st)
		}
		if err := s.structures.Upsert(ctx, structure); err != nil {
			return fmt.Errorf("save structure %s: %w", p.Code, err)
		}
		s.logger.Info("program seeded", zap.String("code", p.Code), zap.Int("terms", len(structure.Terms)))
	}
	return nil
}

func skipDuplicate(err error) error {
	if errors.Is(err, appErrors.ErrDuplicate) {
		return nil
	}
	return err
}
