package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{"Form": forms.SignupForm{}})
}

// Signup creates the account and logs the new user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form forms.SignupForm
	_ = c.ShouldBind(&form)
	errs := form.Validate()
	if errs == nil {
		user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
			Username:  form.Username,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Password:  form.Password,
		})
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			errs = forms.Errors{"username": "A user with that username already exists."}
		case err != nil:
			fail(c, err)
			return
		default:
			if err := login(c, user.ID); err != nil {
				fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	form.Password, form.Password2 = "", ""
	Render(c, http.StatusOK, "users/signup.html", gin.H{"Form": form, "Errors": errs})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"Form": forms.LoginForm{},
		"Next": c.Query("next"),
	})
}

// Login checks the credentials and follows a local ?next= path.
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	next := c.PostForm("next")

	errs := form.Validate()
	if errs == nil {
		user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			errs = forms.Errors{"__all__": "Please enter a correct username and password."}
		case err != nil:
			fail(c, err)
			return
		default:
			if err := login(c, user.ID); err != nil {
				fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, safeNext(next))
			return
		}
	}
	form.Password = ""
	Render(c, http.StatusOK, "users/login.html", gin.H{"Form": form, "Errors": errs, "Next": next})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("logout: %v", err)
	}
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", nil)
}

func login(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, userID)
	return session.Save()
}

// safeNext only allows paths on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
