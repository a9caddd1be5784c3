// Package feed assembles the paginated post lists shown on the index, group,
// profile and follow pages.
package feed

import (
	"context"
	"fmt"
	"yatube/internal/models"
	"yatube/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var tracer = tracing.Tracer("feed")

// Filter narrows a feed. The zero value selects every post.
type Filter struct {
	GroupID    uint // posts in this group
	AuthorID   uint // posts by this author
	FollowerID uint // posts by authors this user follows
}

func All() Filter                       { return Filter{} }
func ByGroup(groupID uint) Filter       { return Filter{GroupID: groupID} }
func ByAuthor(authorID uint) Filter     { return Filter{AuthorID: authorID} }
func FollowedBy(followerID uint) Filter { return Filter{FollowerID: followerID} }

type PostPage = Page[models.Post]

type Assembler struct {
	db      *gorm.DB
	perPage int
}

func NewAssembler(db *gorm.DB, perPage int) *Assembler {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &Assembler{db: db, perPage: perPage}
}

func (a *Assembler) PerPage() int { return a.perPage }

func (a *Assembler) scope(ctx context.Context, f Filter) *gorm.DB {
	q := a.db.WithContext(ctx).Model(&models.Post{})
	if f.GroupID != 0 {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.FollowerID != 0 {
		followed := a.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", f.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

// Assemble returns the requested page of posts matching f, newest first.
// rawPage is the unparsed "page" query value.
func (a *Assembler) Assemble(ctx context.Context, f Filter, rawPage string) (_ PostPage, err error) {
	ctx, span := tracer.Start(ctx, "feed.Assemble")
	defer func() {
		tracing.RecordError(ctx, err)
		span.End()
	}()
	span.SetAttributes(
		attribute.Int("feed.group_id", int(f.GroupID)),
		attribute.Int("feed.author_id", int(f.AuthorID)),
		attribute.Int("feed.follower_id", int(f.FollowerID)),
		attribute.String("feed.page", rawPage),
	)

	var total int64
	if err := a.scope(ctx, f).Count(&total).Error; err != nil {
		return PostPage{}, fmt.Errorf("count posts: %w", err)
	}

	numPages := NumPages(total, a.perPage)
	page := PostPage{
		Number:   ResolvePage(rawPage, numPages),
		NumPages: numPages,
		Count:    total,
		PerPage:  a.perPage,
		Items:    []models.Post{},
	}
	if total == 0 {
		return page, nil
	}

	if err := a.scope(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Limit(a.perPage).
		Offset(page.Offset()).
		Find(&page.Items).Error; err != nil {
		return PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	span.SetAttributes(attribute.Int("feed.items", len(page.Items)))
	return page, nil
}
