package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	orig := buildVersion
	t.Cleanup(func() { buildVersion = orig })
	buildVersion = "v1.2.3"

	var buf bytes.Buffer
	PrintBuildData(&buf, "lead")

	out := buf.String()
	assert.Contains(t, out, "Build version: v1.2.3")
	assert.Contains(t, out, "Build date: N/A")
	assert.Contains(t, out, "Build commit: N/A")
	assert.Greater(t, len(out), len("Build version: v1.2.3"), "banner is printed first")
}
