package storage

import (
	"path/filepath"
	"strings"
	"unicode"
)

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// SafeFilename reduces name to an ASCII file name without path components:
// separators and whitespace become underscores and anything outside
// [A-Za-z0-9._-] is dropped.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'):
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "._")
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return out
}

// ImageName builds the stored name for an equipment image.
func ImageName(code, original string) string {
	return SafeFilename(code + "_" + filepath.Base(strings.ReplaceAll(original, "\\", "/")))
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	ext := filepath.Ext(name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func AllowedExtension(name string, allowed []string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

func ContentType(name string) string {
	if ct, ok := contentTypes[Extension(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// validName reports whether name is a bare file name safe to join to a base path.
func validName(name string) bool {
	return name != "" && name == SafeFilename(name) && name == filepath.Base(name)
}
