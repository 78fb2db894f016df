package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/validation"
)

type createTagRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=120"`
	GroupID string `json:"groupId" validate:"omitempty,max=40"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(createTagRequest{Title: "Faith"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        createTagRequest
		wantErrMsg string
	}{
		{
			name:       "missing title",
			req:        createTagRequest{},
			wantErrMsg: "title is required",
		},
		{
			name:       "title too long",
			req:        createTagRequest{Title: string(make([]byte, 200))},
			wantErrMsg: "title must not exceed 120 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, store.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantErrMsg)
		})
	}
}
