package services

import (
	"context"
	"errors"
	"fmt"
	"yatube/internal/models"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound = errors.New("select a valid group")
	ErrNotAuthor     = errors.New("only the author can edit this post")
)

// PostInput is a validated post form. GroupID nil means no group.
type PostInput struct {
	Text    string
	GroupID *uint
	Image   *Upload
}

type PostService struct {
	db    *gorm.DB
	media *MediaService
}

func NewPostService(db *gorm.DB, media *MediaService) *PostService {
	return &PostService{db: db, media: media}
}

// Get loads a post with its author and group.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	return &post, nil
}

// Create stores a new post by authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	post := models.Post{AuthorID: authorID}
	if err := s.apply(ctx, &post, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Update edits a post in place. Without a new image the old one is kept.
func (s *PostService) Update(ctx context.Context, post *models.Post, editorID uint, in PostInput) error {
	if post.AuthorID != editorID {
		return ErrNotAuthor
	}
	if err := s.apply(ctx, post, in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Model(post).
		Select("Text", "GroupID", "Image", "Thumbnail", "UpdatedAt").
		Updates(post).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return nil
}

func (s *PostService) apply(ctx context.Context, post *models.Post, in PostInput) error {
	if in.GroupID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", *in.GroupID).Count(&count).Error; err != nil {
			return fmt.Errorf("check group: %w", err)
		}
		if count == 0 {
			return ErrGroupNotFound
		}
	}
	if in.Image != nil {
		stored, err := s.media.Save(in.Image)
		if err != nil {
			return err
		}
		post.Image = stored.Image
		post.Thumbnail = stored.Thumbnail
	}
	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	return nil
}

// Comments lists a post's comments, oldest first.
func (s *PostService) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// AddComment stores a comment by authorID under postID.
func (s *PostService) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	comment := models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// CountByAuthor is shown on the profile page.
func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Recent returns the newest posts, optionally within one group, for feeds
// and the sitemap.
func (s *PostService) Recent(ctx context.Context, groupID uint, limit int) ([]models.Post, error) {
	q := s.db.WithContext(ctx).Preload("Author").Preload("Group")
	if groupID != 0 {
		q = q.Where("group_id = ?", groupID)
	}
	var posts []models.Post
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}
