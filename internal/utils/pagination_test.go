package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"floors page", -3, 20, 1, 20, 0},
		{"floors limit", 2, 5, 2, 10, 10},
		{"caps limit", 1, 1000, 1, 50, 0},
		{"passes through", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPagination(tt.page, tt.limit)
			require.Equal(t, tt.wantPage, got.Page)
			require.Equal(t, tt.wantLimit, got.Limit)
			require.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(PaginationParams{Page: 2, Limit: 10}, 25)
	require.Equal(t, 2, resp.Page)
	require.Equal(t, int64(25), resp.Total)
	require.Equal(t, 3, resp.TotalPages)

	resp = NewPaginationResponse(PaginationParams{Page: 1, Limit: 10}, 0)
	require.Equal(t, 0, resp.TotalPages)
}
