package models

import "net/url"

// FilesURLPrefix is the route that serves private files.
const FilesURLPrefix = "/files/"

// FileMeta is the client-facing description of a stored file.
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// NewFileMeta builds the metadata for key; an empty key yields nil.
func NewFileMeta(key, name string, size int64) *FileMeta {
	if key == "" {
		return nil
	}
	return &FileMeta{Name: name, Size: size, URL: FilesURLPrefix + (&url.URL{Path: key}).EscapedPath()}
}
