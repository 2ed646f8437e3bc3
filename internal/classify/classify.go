// Package classify decides what kind of file an uploaded object is, purely
// from its key's trailing extension. Only documents are eligible for the
// assessment pipeline; everything else is logged and skipped by the caller.
package classify

import (
	"path"
	"strings"
)

// FileType is the classification of an uploaded object.
type FileType string

const (
	FileTypeImage    FileType = "IMAGE"
	FileTypeVideo    FileType = "VIDEO"
	FileTypeDocument FileType = "DOCUMENT"
	FileTypeOther    FileType = "OTHER"
)

var (
	imageExtensions = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}, "svg": {},
	}
	videoExtensions = map[string]struct{}{
		"mp4": {}, "mov": {}, "avi": {}, "webm": {},
	}
	documentExtensions = map[string]struct{}{
		"pdf": {}, "doc": {}, "docx": {}, "txt": {}, "csv": {},
	}
)

// Classify maps an object key to a FileType using the lowercased trailing
// extension. Keys with no extension, or an extension outside every known
// set, classify as OTHER. Pure function, total over all inputs.
func Classify(key string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	if ext == "" {
		return FileTypeOther
	}
	switch {
	case in(imageExtensions, ext):
		return FileTypeImage
	case in(videoExtensions, ext):
		return FileTypeVideo
	case in(documentExtensions, ext):
		return FileTypeDocument
	}
	return FileTypeOther
}

func in(set map[string]struct{}, ext string) bool {
	_, ok := set[ext]
	return ok
}
