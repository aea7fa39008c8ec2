package validator

import (
	"testing"

	"mediavault_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadForm struct {
	Title    string          `form:"title" validate:"required,max=10"`
	FileType models.FileType `json:"file_type" validate:"required,is-media-type"`
}

type signupForm struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidate_UsesFieldTagsAsKeys(t *testing.T) {
	v := New()

	err := v.Validate(&uploadForm{Title: "this title is too long", FileType: "image"})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "title")
	assert.Equal(t, "Must be either audio or video", verr.Errors["file_type"])
}

func TestValidate_MediaType(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&uploadForm{Title: "clip", FileType: models.FileTypeAudio}))
	assert.NoError(t, v.Validate(&uploadForm{Title: "clip", FileType: models.FileTypeVideo}))
	assert.Error(t, v.Validate(&uploadForm{Title: "clip"}))
}

func TestValidate_Username(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&signupForm{Username: "alice.b+1@x_y-z", Email: "a@example.com"}))

	err := v.Validate(&signupForm{Username: "alice bob", Email: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.(*ValidationError).Errors, "username")

	err = v.Validate(&signupForm{Username: "alice", Email: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Must be a valid email address", err.(*ValidationError).Errors["email"])
}
