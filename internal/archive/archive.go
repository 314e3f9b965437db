// Package archive streams stored files into zip archives.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/mholt/archives"
)

// Entry is one file placed in an archive. Open is called only when the
// entry is written, so entries can be listed before any data is read.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
	Open    func() (io.ReadCloser, error)
}

// WriteZip writes entries as a deflate-compressed zip archive to w.
func WriteZip(ctx context.Context, w io.Writer, entries []Entry) error {
	files := make([]archives.FileInfo, 0, len(entries))
	for _, entry := range entries {
		entry := entry
		info := entryInfo{name: path.Base(entry.Path), size: entry.Size, modTime: entry.ModTime}
		files = append(files, archives.FileInfo{
			FileInfo:      info,
			NameInArchive: entry.Path,
			Open: func() (fs.File, error) {
				rc, err := entry.Open()
				if err != nil {
					return nil, err
				}
				return &entryFile{ReadCloser: rc, info: info}, nil
			},
		})
	}
	return archives.Zip{Compression: zip.Deflate}.Archive(ctx, w, files)
}

type entryInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i entryInfo) Name() string       { return i.name }
func (i entryInfo) Size() int64        { return i.size }
func (i entryInfo) Mode() fs.FileMode  { return 0o644 }
func (i entryInfo) ModTime() time.Time { return i.modTime }
func (i entryInfo) IsDir() bool        { return false }
func (i entryInfo) Sys() any           { return nil }

type entryFile struct {
	io.ReadCloser
	info entryInfo
}

func (f *entryFile) Stat() (fs.FileInfo, error) { return f.info, nil }
