package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"explicit", "?page=3&per_page=10", Params{Page: 3, PerPage: 10, Offset: 20}},
		{"negative page", "?page=-1", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"per_page too large", "?per_page=1000", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"not a number", "?page=abc&per_page=xyz", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"max per_page", "?page=2&per_page=100", Params{Page: 2, PerPage: 100, Offset: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/admin/reviews"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Window(items, New(1, 2)))
	assert.Equal(t, []int{5}, Window(items, New(3, 2)))
	assert.Equal(t, []int{}, Window(items, New(4, 2)))
	assert.Equal(t, []int{}, Window([]int(nil), New(1, 20)))
}
