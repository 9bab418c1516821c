package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Query(t *testing.T) {
	tests := []struct {
		f      Filter
		want   string
		wantOK bool
		str    string
	}{
		{FilterAll, "", false, "all"},
		{FilterSelected, "true", true, "selected"},
		{FilterUnselected, "false", true, "unselected"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got, ok := tt.f.Query()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.str, tt.f.String())
		})
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{
		"":           FilterAll,
		"all":        FilterAll,
		"Selected":   FilterSelected,
		"true":       FilterSelected,
		"unselected": FilterUnselected,
		"false":      FilterUnselected,
	} {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("maybe")
	require.Error(t, err)
}
