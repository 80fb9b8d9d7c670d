package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/asciiplay/internal/frames"
	"github.com/maauso/asciiplay/internal/storage"
)

const clipJSON = `{"fps": 24, "resolution": 0.15, "frames": {
	"10": ["ghi", "jkl"],
	"1":  ["abc", "def"],
	"2":  [["m", "n", "o"], ["p", "q", "r"]]
}}`

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.json")
	require.NoError(t, os.WriteFile(path, []byte(clipJSON), 0o600))
	return path
}

// stdinWith returns a file positioned at the start of content.
func stdinWith(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	a := &app{stdin: stdinWith(t, stdin)}
	t.Cleanup(a.close)

	var out, errOut bytes.Buffer
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLocationArg(t *testing.T) {
	clip := writeClip(t)
	dir := filepath.Join(t.TempDir(), "dir.json")
	require.NoError(t, os.Mkdir(dir, 0o750))

	tests := []struct {
		name     string
		location string
		wantErr  error
	}{
		{"existing json file", clip, nil},
		{"unsupported extension", "clip.mp4", frames.ErrUnsupportedExtension},
		{"missing file", filepath.Join(t.TempDir(), "missing.pkl"), os.ErrNotExist},
		{"s3 object", "s3://bucket/videos/clip.pkl", nil},
		{"s3 without bucket", "s3:///clip.json", storage.ErrInvalidLocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := locationArg(nil, []string{tt.location})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("directory", func(t *testing.T) {
		err := locationArg(nil, []string{dir})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "", "info", writeClip(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Frames:     3 (keys 1 to 10)")
	assert.Contains(t, out, "FPS:        24")
	assert.Contains(t, out, "Resolution: 0.15")
	assert.Contains(t, out, "Size:       2 rows x 3 cols")
	assert.Contains(t, out, "Duration:   0.12s")
}

func TestPlayCommand_ToCompletion(t *testing.T) {
	t.Setenv("FPS_OFFSET", "0")
	out, err := execute(t, "", "play", "--fps", "1000", writeClip(t))
	require.NoError(t, err)

	assert.Contains(t, out, "ASCII VIDEO PLAYER")
	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, "abc\r\ndef\r\n")
	assert.Contains(t, out, "mno\r\npqr\r\n")
	assert.Contains(t, out, "ghi\r\njkl\r\n")
	assert.Contains(t, out, "Playback finished in ")
	assert.Less(t, bytes.Index([]byte(out), []byte("abc")), bytes.Index([]byte(out), []byte("mno")))
	assert.Less(t, bytes.Index([]byte(out), []byte("mno")), bytes.Index([]byte(out), []byte("ghi")))
}

func TestPlayCommand_StopKey(t *testing.T) {
	out, err := execute(t, "y", "play", "--fps", "1", writeClip(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "Playback finished")
	assert.NotContains(t, out, interruptMessage)
}

func TestPlayCommand_CtrlC(t *testing.T) {
	out, err := execute(t, "\x03", "play", "--fps", "1", writeClip(t))
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[2J\x1b[H"+interruptMessage)
	assert.NotContains(t, out, "Playback finished")
}

func TestPlayCommand_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := execute(t, "", "play", "clip.gif")
		assert.ErrorIs(t, err, frames.ErrUnsupportedExtension)
	})

	t.Run("negative fps", func(t *testing.T) {
		_, err := execute(t, "", "play", "--fps", "-2", writeClip(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--fps")
	})

	t.Run("empty container", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"fps": 24, "frames": {}}`), 0o600))
		_, err := execute(t, "", "play", path)
		assert.ErrorIs(t, err, frames.ErrEmptyCollection)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "", "play")
		assert.Error(t, err)
	})

	t.Run("s3 without configuration", func(t *testing.T) {
		_, err := execute(t, "", "info", "s3://bucket/clip.json")
		assert.ErrorIs(t, err, storage.ErrS3NotConfigured)
	})
}
