package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("me@example.com"))
	assert.NoError(t, ValidateEmail("  me@example.com "))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not an email"))
	assert.Error(t, ValidateEmail("Me <me@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}
