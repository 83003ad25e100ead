package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 25, 30)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 25, p.PerPage)
	require.Equal(t, 30, p.Total)
	require.Equal(t, 2, p.TotalPages)
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 10)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 25, p.PerPage)
	require.Equal(t, 1, p.TotalPages)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(1, 25, 0)
	require.Zero(t, p.TotalPages)
}
