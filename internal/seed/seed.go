// Package seed populates a database with demo users, profiles, posts and
// likes. It is intended for development and tests only.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"socialhub/internal/models"
	"socialhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded account. It satisfies the
// strict password policy.
const DefaultPassword = "Password123!"

var degrees = []string{"BSc", "BA", "MSc", "MBA", "PhD", "Diploma"}

// Seeder writes fake data through the application's own repositories.
type Seeder struct {
	db       *gorm.DB
	profiles repository.ProfileRepository
	faker    *gofakeit.Faker
	now      func() time.Time
}

// NewSeeder returns a Seeder with a fixed random seed, so repeated runs
// generate the same accounts.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithSeed(db, 42)
}

// NewSeederWithSeed is NewSeeder with an explicit random seed.
func NewSeederWithSeed(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		profiles: repository.NewProfileRepository(db),
		faker:    gofakeit.New(seed),
		now:      time.Now,
	}
}

// SeedUsers ensures n users with profiles exist. Users are matched by
// username, so a second run reuses rather than duplicates them.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", s.faker.Username(), i)
		user := &models.User{
			Username: username,
			Email:    strings.ToLower(username) + "@example.com",
			Password: string(hashed),
		}

		err := s.db.Where("username = ?", username).First(user).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.db.Create(user).Error; err != nil {
				return nil, fmt.Errorf("create user %s: %w", username, err)
			}
		default:
			return nil, fmt.Errorf("look up user %s: %w", username, err)
		}

		if _, err := s.profiles.Apply(context.Background(), user.ID, s.fakeProfile()); err != nil {
			return nil, fmt.Errorf("seed profile for %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) fakeProfile() repository.ProfileChanges {
	bio := s.faker.Sentence(12)

	skills := make([]models.Skill, s.faker.Number(1, 4))
	for i := range skills {
		skills[i] = models.Skill{Name: s.faker.ProgrammingLanguage()}
	}

	experiences := make([]models.Experience, s.faker.Number(0, 3))
	for i := range experiences {
		years := s.faker.Number(1, 10)
		experiences[i] = models.Experience{
			Company: s.faker.Company(),
			Role:    s.faker.JobTitle(),
			Years:   &years,
		}
	}

	year := s.faker.Number(1995, 2024)
	educations := []models.Education{{
		Institution: s.faker.City() + " University",
		Degree:      degrees[s.faker.Number(0, len(degrees)-1)],
		Year:        &year,
	}}

	return repository.ProfileChanges{
		Bio:         &bio,
		Skills:      &skills,
		Experiences: &experiences,
		Educations:  &educations,
	}
}

// SeedPosts creates n posts spread over users, each liked by a random
// subset of users. Posts are backdated so the feed has a spread of ages.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 || n <= 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		created := s.now().Add(-time.Duration(n-i) * time.Hour)
		post := &models.Post{
			UserID:    author.ID,
			Content:   clip(s.faker.Paragraph(1, 3, 12, " "), models.MaxPostContentLength),
			CreatedAt: created,
			UpdatedAt: created,
		}
		if s.faker.Number(0, 3) == 0 {
			post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID())
			post.MediaType = models.MediaTypeImage
		}
		if err := s.db.Omit(clause.Associations).Create(post).Error; err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}

		for _, liker := range users {
			if s.faker.Number(0, 2) != 0 {
				continue
			}
			like := models.Like{UserID: liker.ID, PostID: post.ID}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&like).Error; err != nil {
				return nil, fmt.Errorf("create like: %w", err)
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
