package commands

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunKeygen(t *testing.T) {
	var out bytes.Buffer
	err := RunKeygen(IOTuple{Writer: &out})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "LLM_CONFIG_KEY="))

	encoded := strings.TrimPrefix(lines[0], "LLM_CONFIG_KEY=")
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	// Two runs never produce the same key.
	var second bytes.Buffer
	require.NoError(t, RunKeygen(IOTuple{Writer: &second}))
	require.NotEqual(t, out.String(), second.String())
}
