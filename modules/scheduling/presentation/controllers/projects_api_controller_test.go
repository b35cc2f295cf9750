package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
)

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   *project.FindParams
	}{
		{"no limit lists everything", "/api/projects", nil},
		{"limit only", "/api/projects?limit=10", &project.FindParams{Limit: 10}},
		{"limit and offset", "/api/projects?limit=10&offset=5", &project.FindParams{Limit: 10, Offset: 5}},
		{"non-numeric limit ignored", "/api/projects?limit=abc", nil},
		{"zero limit ignored", "/api/projects?limit=0", nil},
		{"negative offset clamped", "/api/projects?limit=10&offset=-3", &project.FindParams{Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			params, ok := paginationParams(r)
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, params)
		})
	}
}
