// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"
	"yatube/internal/db"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

// CreateUser inserts a user with an unusable password hash.
func CreateUser(t *testing.T, conn *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "!"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateGroup(t *testing.T, conn *gorm.DB, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	if err := conn.Create(&group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group
}

// CreatePost inserts a post; group may be nil.
func CreatePost(t *testing.T, conn *gorm.DB, author models.User, group *models.Group, text string) models.Post {
	t.Helper()
	post := models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := conn.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// CreatePosts inserts n posts with strictly increasing creation times so that
// feed order is deterministic.
func CreatePosts(t *testing.T, conn *gorm.DB, author models.User, group *models.Group, n int) []models.Post {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			Text:      fmt.Sprintf("Test post %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if group != nil {
			posts[i].GroupID = &group.ID
		}
	}
	if err := conn.Create(&posts).Error; err != nil {
		t.Fatalf("create posts: %v", err)
	}
	return posts
}

func Follow(t *testing.T, conn *gorm.DB, user, author models.User) {
	t.Helper()
	if err := conn.Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
}
