package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"yatube/internal/cache"
	"yatube/internal/feed"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

const detailTitleLen = 30

type PostHandler struct {
	posts    *services.PostService
	groups   *services.GroupService
	users    *services.UserService
	follows  *services.FollowService
	media    *services.MediaService
	feed     *feed.Assembler
	cache    cache.Store
	cacheTTL time.Duration
}

func NewPostHandler(
	posts *services.PostService,
	groups *services.GroupService,
	users *services.UserService,
	follows *services.FollowService,
	media *services.MediaService,
	assembler *feed.Assembler,
	store cache.Store,
	cacheTTL time.Duration,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		media:    media,
		feed:     assembler,
		cache:    store,
		cacheTTL: cacheTTL,
	}
}

// Index shows every post. The assembled page is cached for cacheTTL and
// served stale until it expires or the cache is cleared.
func (h *PostHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	raw := c.Query("page")
	key := cache.IndexPageKey(raw)

	var page feed.PostPage
	hit, err := cache.GetJSON(ctx, h.cache, key, &page)
	if err != nil {
		log.Printf("index cache get %s: %v", key, err)
	}
	if !hit {
		page, err = h.feed.Assemble(ctx, feed.All(), raw)
		if err != nil {
			fail(c, err)
			return
		}
		if h.cacheTTL > 0 {
			if err := cache.SetJSON(ctx, h.cache, key, page, h.cacheTTL); err != nil {
				log.Printf("index cache set %s: %v", key, err)
			}
		}
	}

	Render(c, http.StatusOK, "posts/index.html", gin.H{"Page": page})
}

// GroupPosts shows the posts of one group.
func (h *PostHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.groups.BySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.feed.Assemble(ctx, feed.ByGroup(group.ID), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Group": group,
		"Page":  page,
	})
}

// Profile shows an author's posts and, for a signed-in visitor, whether they
// follow the author.
func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.feed.Assemble(ctx, feed.ByAuthor(author.ID), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	followers, following, err := h.follows.Counts(ctx, author.ID)
	if err != nil {
		fail(c, err)
		return
	}

	isFollowing, isSelf := false, false
	if user := middleware.CurrentUser(c); user != nil {
		isSelf = user.ID == author.ID
		if isFollowing, err = h.follows.IsFollowing(ctx, user.ID, author.ID); err != nil {
			fail(c, err)
			return
		}
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Author":         author,
		"Page":           page,
		"Following":      isFollowing,
		"IsSelf":         isSelf,
		"Followers":      followers,
		"FollowingCount": following,
	})
}

// Detail shows one post with its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	comments, err := h.posts.Comments(ctx, post.ID)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := h.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Title":           models.Truncate(post.Text, detailTitleLen),
		"Post":            post,
		"Comments":        comments,
		"AuthorPostCount": count,
	})
}

// FollowIndex shows posts by the authors the current user follows.
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, err := h.feed.Assemble(c.Request.Context(), feed.FollowedBy(user.ID), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{"Page": page})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, forms.PostForm{}, nil, nil)
}

// Create publishes a post and redirects to the author's profile. An invalid
// form is shown again with its messages and nothing is stored.
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form, in, errs := h.bindPost(c)
	if errs == nil {
		if _, err := h.posts.Create(c.Request.Context(), user.ID, in); err != nil {
			errs = postErrors(err)
			if errs == nil {
				fail(c, err)
				return
			}
		}
	}
	if errs != nil {
		h.renderForm(c, form, errs, nil)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.loadEditable(c)
	if !ok {
		return
	}
	form := forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.GroupID = fmt.Sprint(*post.GroupID)
	}
	h.renderForm(c, form, nil, post)
}

// Edit saves changes from the post's author and redirects to the post.
func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.loadEditable(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	form, in, errs := h.bindPost(c)
	if errs == nil {
		if err := h.posts.Update(c.Request.Context(), post, user.ID, in); err != nil {
			errs = postErrors(err)
			if errs == nil {
				fail(c, err)
				return
			}
		}
	}
	if errs != nil {
		h.renderForm(c, form, errs, post)
		return
	}
	c.Redirect(http.StatusFound, detailURL(post.ID))
}

// AddComment stores a non-empty comment. Either way the visitor goes back
// to the post.
func (h *PostHandler) AddComment(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	var form forms.CommentForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs == nil {
		user := middleware.CurrentUser(c)
		if _, err := h.posts.AddComment(c.Request.Context(), post.ID, user.ID, form.Text); err != nil {
			fail(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, detailURL(post.ID))
}

func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return nil, false
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return post, true
}

// loadEditable sends anyone but the author back to the post.
func (h *PostHandler) loadEditable(c *gin.Context) (*models.Post, bool) {
	post, ok := h.loadPost(c)
	if !ok {
		return nil, false
	}
	if post.AuthorID != middleware.CurrentUser(c).ID {
		c.Redirect(http.StatusFound, detailURL(post.ID))
		return nil, false
	}
	return post, true
}

func (h *PostHandler) bindPost(c *gin.Context) (forms.PostForm, services.PostInput, forms.Errors) {
	var form forms.PostForm
	_ = c.ShouldBind(&form)
	errs := form.Validate()

	in := services.PostInput{Text: form.Text}
	if form.GroupID != "" {
		if id, ok := utils.ParseID(form.GroupID); ok {
			in.GroupID = &id
		} else if errs == nil {
			errs = forms.Errors{"group": services.ErrGroupNotFound.Error()}
		}
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		errs = addError(errs, "image", "Upload a valid image.")
	case fh.Size > 0:
		up, err := h.media.ReadUpload(fh)
		if err != nil {
			errs = addError(errs, "image", imageMessage(err))
		} else {
			in.Image = up
		}
	}
	return form, in, errs
}

func (h *PostHandler) renderForm(c *gin.Context, form forms.PostForm, errs forms.Errors, post *models.Post) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	data := gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": post != nil,
	}
	if post != nil {
		data["PostID"] = post.ID
	}
	Render(c, http.StatusOK, "posts/create_post.html", data)
}

// postErrors maps service errors caused by user input to form messages.
func postErrors(err error) forms.Errors {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		return forms.Errors{"group": err.Error()}
	case errors.Is(err, services.ErrUnsupportedImage), errors.Is(err, services.ErrImageTooLarge):
		return forms.Errors{"image": imageMessage(err)}
	}
	return nil
}

func imageMessage(err error) string {
	if errors.Is(err, services.ErrImageTooLarge) {
		return "The image is too large."
	}
	return "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
}

func addError(errs forms.Errors, field, msg string) forms.Errors {
	if errs == nil {
		errs = forms.Errors{}
	}
	if !errs.Has(field) {
		errs[field] = msg
	}
	return errs
}

func detailURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
