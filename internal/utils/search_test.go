package utils_test

import (
	"testing"

	"github.com/medrar/medrar_books_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Rice  5kg ", "rice 5kg"},
		{"AL-NOOR\tTrading", "al-noor trading"},
		{"one two   three", "one two three"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, utils.NormalizeSearch(tc.in), "input %q", tc.in)
	}
}

func TestSearchMatch(t *testing.T) {
	assert.True(t, utils.SearchMatch("Al-Noor Trading", "noor"))
	assert.True(t, utils.SearchMatch("Al-Noor Trading", "  AL-NOOR "))
	assert.True(t, utils.SearchMatch("anything", ""))
	assert.False(t, utils.SearchMatch("Golden Star", "noor"))
}
