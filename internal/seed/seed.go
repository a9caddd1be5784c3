// Package seed fills a database with demo users, posts, comments and follows
// for local development.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is set on every generated account.
const DemoPassword = "password123"

type Options struct {
	Users    int
	Posts    int
	Comments int
	// MaxDays spreads post creation times over this many past days.
	MaxDays int
}

type Summary struct {
	Users    int
	Posts    int
	Comments int
	Follows  int
}

type Seeder struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	follows *services.FollowService
}

// New returns a seeder. The same seed yields the same data.
func New(conn *gorm.DB, seed int64) *Seeder {
	return &Seeder{db: conn, faker: gofakeit.New(seed), follows: services.NewFollowService(conn)}
}

// ClearAll removes users and their content. Groups are kept.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if err := db.SeedGroups(s.db); err != nil {
		return sum, err
	}
	var groups []models.Group
	if err := s.db.WithContext(ctx).Find(&groups).Error; err != nil {
		return sum, fmt.Errorf("load groups: %w", err)
	}

	users, err := s.createUsers(ctx, opts.Users)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	posts := make([]models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		post := models.Post{
			Text:      s.faker.Paragraph(1, 3, 12, "\n\n"),
			AuthorID:  author.ID,
			CreatedAt: s.pastTime(opts.MaxDays),
		}
		// about a third of posts stay outside any group
		if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
			post.GroupID = &groups[s.faker.Number(0, len(groups)-1)].ID
		}
		posts = append(posts, post)
	}
	if len(posts) > 0 {
		if err := s.db.WithContext(ctx).CreateInBatches(&posts, 100).Error; err != nil {
			return sum, fmt.Errorf("create posts: %w", err)
		}
	}
	sum.Posts = len(posts)

	if len(posts) > 0 {
		comments := make([]models.Comment, 0, opts.Comments)
		for i := 0; i < opts.Comments; i++ {
			post := posts[s.faker.Number(0, len(posts)-1)]
			comments = append(comments, models.Comment{
				PostID:    post.ID,
				AuthorID:  users[s.faker.Number(0, len(users)-1)].ID,
				Text:      s.faker.Sentence(s.faker.Number(3, 15)),
				CreatedAt: post.CreatedAt.Add(time.Duration(s.faker.Number(1, 48*60)) * time.Minute),
			})
		}
		if len(comments) > 0 {
			if err := s.db.WithContext(ctx).CreateInBatches(&comments, 100).Error; err != nil {
				return sum, fmt.Errorf("create comments: %w", err)
			}
		}
		sum.Comments = len(comments)
	}

	for _, u := range users {
		for n := s.faker.Number(0, 3); n > 0; n-- {
			author := users[s.faker.Number(0, len(users)-1)]
			created, err := s.follows.Follow(ctx, u.ID, author.ID)
			if err != nil {
				return sum, err
			}
			if created {
				sum.Follows++
			}
		}
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d follows", sum.Users, sum.Posts, sum.Comments, sum.Follows)
	return sum, nil
}

func (s *Seeder) createUsers(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		username := fmt.Sprintf("%s.%s%d", slugPart(first), slugPart(last), i+1)
		users = append(users, models.User{
			Username:  username,
			FirstName: first,
			LastName:  last,
			Email:     username + "@example.com",
			Password:  hash,
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// slugPart keeps the ASCII letters of a generated name.
func slugPart(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return -1
	}, name)
}
