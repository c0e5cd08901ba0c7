package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintDefaults(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf)
	require.Contains(t, buf.String(), "Build version: N/A")
	require.Contains(t, buf.String(), "Build date: N/A")
	require.Contains(t, buf.String(), "Build commit: N/A")
}
