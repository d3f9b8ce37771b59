package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextToChars(t *testing.T) {
	runs := []textRun{
		{Font: "Times-Bold", FontSize: 10, X: 10, Y: 90, W: 30, S: "a b"},
		{Font: "Times", FontSize: 10, X: 0, Y: 0, W: 0, S: ""},
	}

	chars := textToChars(runs, flipY)
	require.Len(t, chars, 2)

	assert.Equal(t, "a", chars[0].Text)
	assert.Equal(t, "Times-Bold", chars[0].Font)
	assert.InDelta(t, 10.0, chars[0].X0, 1e-9)
	assert.InDelta(t, 20.0, chars[0].X1, 1e-9)
	assert.InDelta(t, 2.0, chars[0].Y0, 1e-9)
	assert.InDelta(t, 12.0, chars[0].Y1, 1e-9)

	// the space advances the pen without producing a char
	assert.Equal(t, "b", chars[1].Text)
	assert.InDelta(t, 30.0, chars[1].X0, 1e-9)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF")
}

func TestOpenNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
