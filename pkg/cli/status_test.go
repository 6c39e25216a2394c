package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewStatusPrinter(&buf, false)

	p.Status(Title, "Archiving %s", "photos")
	p.Status(Info, "working")
	p.Status(Success, "done")
	p.Status(Error, "Error: %v", "boom")

	assert.Equal(t, "[title] Archiving photos\nworking\n[success] done\n[error] Error: boom\n", buf.String())
}

func TestStatusColor(t *testing.T) {
	var buf bytes.Buffer
	NewStatusPrinter(&buf, true).Status(Error, "broken")

	assert.Contains(t, buf.String(), "broken")
	assert.Contains(t, buf.String(), "\x1b[")
}
