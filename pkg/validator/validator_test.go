package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedbackInput struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"notblank,max=20"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending reviewed"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(feedbackInput{Rating: 4, Review: "nice"}))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	fields := fieldsOf(t, Validate(feedbackInput{Review: "ok"}))
	assert.Equal(t, "is required", fields["rating"])
}

func TestValidate_RangeMessages(t *testing.T) {
	fields := fieldsOf(t, Validate(feedbackInput{Rating: 9, Review: "ok"}))
	assert.Contains(t, fields["rating"], "5")
}

func TestValidate_NotBlank(t *testing.T) {
	for _, review := range []string{"", "   ", "\n\t"} {
		fields := fieldsOf(t, Validate(feedbackInput{Rating: 3, Review: review}))
		assert.Equal(t, "must not be blank", fields["review"])
	}
}

func TestValidate_MaxLength(t *testing.T) {
	fields := fieldsOf(t, Validate(feedbackInput{Rating: 3, Review: strings.Repeat("a", 21)}))
	assert.Equal(t, "must be at most 20 characters", fields["review"])
}

func TestValidate_MaxCountsRunes(t *testing.T) {
	assert.NoError(t, Validate(feedbackInput{Rating: 3, Review: strings.Repeat("é", 20)}))
}

func TestValidate_OneOf(t *testing.T) {
	fields := fieldsOf(t, Validate(feedbackInput{Rating: 3, Review: "x", Status: "archived"}))
	assert.Contains(t, fields["status"], "one of")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(feedbackInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'rating'")
	assert.Contains(t, err.Error(), "field 'review'")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5,"review":"great"}`))
		var in feedbackInput
		require.NoError(t, DecodeAndValidate(req, &in))
		assert.Equal(t, 5, in.Rating)
		assert.Equal(t, "great", in.Review)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))
		var in feedbackInput
		err := DecodeAndValidate(req, &in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5,"review":"x","extra":1}`))
		var in feedbackInput
		err := DecodeAndValidate(req, &in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("validation fails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":0,"review":" "}`))
		var in feedbackInput
		err := DecodeAndValidate(req, &in)
		var valErr *ValidationError
		assert.ErrorAs(t, err, &valErr)
	})
}
