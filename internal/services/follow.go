package services

import (
	"context"
	"fmt"
	"yatube/internal/metrics"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowService manages follow edges between users.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow makes userID follow authorID. Following yourself is ignored and a
// repeated follow leaves the single existing edge in place. The bool reports
// whether a new edge was stored.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == authorID {
		return false, nil
	}
	edge := models.Follow{UserID: userID, AuthorID: authorID}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&edge)
	if res.Error != nil {
		return false, fmt.Errorf("follow %d -> %d: %w", userID, authorID, res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.FollowActions.WithLabelValues("follow").Inc()
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge if there is one.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, fmt.Errorf("unfollow %d -> %d: %w", userID, authorID, res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.FollowActions.WithLabelValues("unfollow").Inc()
	}
	return res.RowsAffected > 0, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return count > 0, nil
}

// Counts returns how many users follow userID and how many authors userID follows.
func (s *FollowService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	conn := s.db.WithContext(ctx).Model(&models.Follow{})
	if err = conn.Where("author_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, fmt.Errorf("count followers: %w", err)
	}
	conn = s.db.WithContext(ctx).Model(&models.Follow{})
	if err = conn.Where("user_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, fmt.Errorf("count following: %w", err)
	}
	return followers, following, nil
}
