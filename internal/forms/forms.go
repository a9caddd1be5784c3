// Package forms holds the submitted-form structs and their validation.
// Validation is pure: it never touches storage.
package forms

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a form field name to a message shown next to it.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// PostForm is the create/edit post submission.
type PostForm struct {
	Text    string `form:"text" validate:"required,max=10000"`
	GroupID string `form:"group" validate:"omitempty,number"`
}

// CommentForm is the comment submission under a post.
type CommentForm struct {
	Text string `form:"text" validate:"required,max=2000"`
}

// SignupForm is the registration form.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email"`
	Password  string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func init() {
	// Letters, digits and @.+-_ only.
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			case strings.ContainsRune("@.+-_", r):
			default:
				return false
			}
		}
		return true
	})
}

// Validate trims text fields and checks the form. It returns nil when the
// form is valid.
func (f *PostForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	f.GroupID = strings.TrimSpace(f.GroupID)
	return check(f, map[string]string{"Text": "text", "GroupID": "group"})
}

func (f *CommentForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f, map[string]string{"Text": "text"})
}

func (f *SignupForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	return check(f, map[string]string{
		"FirstName": "first_name",
		"LastName":  "last_name",
		"Username":  "username",
		"Email":     "email",
		"Password":  "password1",
		"Password2": "password2",
	})
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f, map[string]string{"Username": "username", "Password": "password"})
}

func check(form any, fields map[string]string) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"__all__": err.Error()}
	}
	out := Errors{}
	for _, fe := range verrs {
		name := fields[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if _, seen := out[name]; !seen {
			out[name] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "number":
		return "Select a valid choice."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only."
	default:
		return "Invalid value."
	}
}
