package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 9, 1, 15, 4, 5, 0, time.UTC)

	n := NewOrderNumber(now)
	assert.True(t, strings.HasPrefix(n, "ORD-20250901-"), n)
	assert.Len(t, n, len("ORD-20250901-")+6)

	// ambiguous characters are kept out of the suffix
	suffix := strings.TrimPrefix(n, "ORD-20250901-")
	for _, r := range suffix {
		assert.NotContains(t, "01IO", string(r))
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewOrderNumber(now)] = true
	}
	assert.Greater(t, len(seen), 90, "suffixes should be near-unique")
}
