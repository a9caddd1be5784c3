package handlers

import (
	"net/http"
	"net/url"
	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	users   *services.UserService
	follows *services.FollowService
}

func NewFollowHandler(users *services.UserService, follows *services.FollowService) *FollowHandler {
	return &FollowHandler{users: users, follows: follows}
}

// Follow subscribes the current user to the author. Self-follow and repeats
// are no-ops; both end on the author's profile.
func (h *FollowHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.follows.Follow(ctx, middleware.CurrentUser(c).ID, author.ID); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.follows.Unfollow(ctx, middleware.CurrentUser(c).ID, author.ID); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
