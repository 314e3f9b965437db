package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringEntry(name, content string) Entry {
	return Entry{
		Path:    name,
		Size:    int64(len(content)),
		ModTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteZip(context.Background(), &buf, []Entry{
		stringEntry("Opening/Drums/kick.wav", "kick"),
		stringEntry("Opening/Vocals/lead.wav", "lead vocal"),
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	got := map[string]string{}
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"Opening/Drums/kick.wav":  "kick",
		"Opening/Vocals/lead.wav": "lead vocal",
	}, got)
}

func TestWriteZipOpenFailure(t *testing.T) {
	boom := errors.New("boom")
	entry := stringEntry("a/b/c.wav", "x")
	entry.Open = func() (io.ReadCloser, error) { return nil, boom }

	err := WriteZip(context.Background(), io.Discard, []Entry{entry})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
