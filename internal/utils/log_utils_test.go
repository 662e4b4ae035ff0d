package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navikt/roomboard/internal/utils"
)

func TestSanitizeLogString(t *testing.T) {
	assert.Equal(t, "", utils.SanitizeLogString(""))
	assert.Equal(t, "room 101", utils.SanitizeLogString("room 101"))

	// Control characters cannot forge extra log lines
	assert.Equal(t, "line1 line2", utils.SanitizeLogString("line1\nline2"))
	assert.Equal(t, "tab here", utils.SanitizeLogString("tab\there"))

	// Format specifiers are neutralized
	assert.Equal(t, "100%%", utils.SanitizeLogString("100%"))
}

func TestSanitizeLogStringTruncatesLongInput(t *testing.T) {
	long := strings.Repeat("a", 500)
	sanitized := utils.SanitizeLogString(long)

	assert.True(t, strings.HasSuffix(sanitized, "... (truncated)"))
	assert.Less(t, len(sanitized), 500)
}
