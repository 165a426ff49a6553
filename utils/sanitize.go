package utils

import (
	"path"
	"strings"
)

// SanitizeFilename strips path components and control characters from a
// caller-supplied file name.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(name)
	clean = strings.ReplaceAll(clean, "\\", "/")
	clean = path.Base(clean)
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\n", "")
	if clean == "" || clean == "." || clean == "/" {
		return "file"
	}
	return clean
}

// FileExtension returns the sanitized extension of a file name, lowered,
// including the dot. Unnamed or extensionless files yield "".
func FileExtension(name string) string {
	ext := path.Ext(SanitizeFilename(name))
	if len(ext) > 16 {
		return ""
	}
	return strings.ToLower(ext)
}
