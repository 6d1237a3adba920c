package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", &buf)

	Info.Println("priced")
	Debug.Println("lattice detail")
	Warn.Println("periods capped")

	out := buf.String()
	assert.NotContains(t, out, "priced")
	assert.NotContains(t, out, "lattice detail")
	assert.Contains(t, out, "WARN: ")
	assert.Contains(t, out, "periods capped")
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("chatty", &buf)

	Info.Println("visible")
	Debug.Println("hidden")
	Always.Println("always")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "ALWAYS: always")
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atop.log")
	require.NoError(t, InitWithRotation("debug", path, 1, 1))
	t.Cleanup(func() { Close() })

	Debug.Println("step-in rendered")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "step-in rendered")
}
