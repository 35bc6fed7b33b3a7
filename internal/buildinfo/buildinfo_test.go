package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData_Defaults(t *testing.T) {
	var out bytes.Buffer
	PrintBuildData(&out)

	s := out.String()
	assert.Contains(t, s, "Build version: N/A")
	assert.Contains(t, s, "Build date: N/A")
	assert.Contains(t, s, "Build commit: N/A")
}
