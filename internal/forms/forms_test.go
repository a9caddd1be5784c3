package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		form   PostForm
		fields []string
	}{
		{"valid without group", PostForm{Text: "hello"}, nil},
		{"valid with group", PostForm{Text: "hello", GroupID: "3"}, nil},
		{"empty text", PostForm{Text: ""}, []string{"text"}},
		{"whitespace text", PostForm{Text: "  \n\t "}, []string{"text"}},
		{"bad group", PostForm{Text: "hello", GroupID: "abc"}, []string{"group"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if tt.fields == nil {
				assert.Nil(t, errs)
				return
			}
			for _, f := range tt.fields {
				assert.True(t, errs.Has(f), "expected error on %s, got %v", f, errs)
			}
		})
	}
}

func TestPostFormTrimsText(t *testing.T) {
	f := PostForm{Text: "  body  "}
	assert.Nil(t, f.Validate())
	assert.Equal(t, "body", f.Text)
}

func TestCommentFormValidate(t *testing.T) {
	f := CommentForm{Text: "   "}
	errs := f.Validate()
	assert.Equal(t, "This field is required.", errs["text"])

	f = CommentForm{Text: "nice"}
	assert.Nil(t, f.Validate())
}

func TestSignupFormValidate(t *testing.T) {
	ok := SignupForm{Username: "leo", Email: "leo@example.com", Password: "s3cretpass", Password2: "s3cretpass"}
	assert.Nil(t, ok.Validate())

	mismatch := ok
	mismatch.Password2 = "other-pass"
	assert.True(t, mismatch.Validate().Has("password2"))

	badName := ok
	badName.Username = "leo tolstoy"
	assert.True(t, badName.Validate().Has("username"))

	short := ok
	short.Password, short.Password2 = "short", "short"
	assert.True(t, short.Validate().Has("password1"))

	badEmail := ok
	badEmail.Email = "nope"
	assert.True(t, badEmail.Validate().Has("email"))
}

func TestLoginFormValidate(t *testing.T) {
	f := LoginForm{}
	errs := f.Validate()
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("password"))
}
