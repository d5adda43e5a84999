package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCmdUsesConfiguredTimeZone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZ", "Asia/Tokyo")

	var out bytes.Buffer
	c := TemplatesCmd()
	c.SetOut(&out)
	c.SetArgs(nil)
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "water")
	assert.Contains(t, out.String(), "08:00")
	assert.Contains(t, out.String(), "21:00")
}

func TestTemplatesCmdRejectsUnknownTimeZone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZ", "Nowhere/Atlantis")

	c := TemplatesCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(nil)
	assert.ErrorContains(t, c.Execute(), "invalid TZ")
}
