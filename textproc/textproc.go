package textproc

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/vowvector/core"
)

// extToNodeType maps lowercase file extensions to node types.
// Unknown and missing extensions fall back to Note.
var extToNodeType = map[string]core.NodeType{
	".txt":  core.NodeTypeNote,
	".md":   core.NodeTypeNote,
	".py":   core.NodeTypeCode,
	".js":   core.NodeTypeCode,
	".ts":   core.NodeTypeCode,
	".jsx":  core.NodeTypeCode,
	".tsx":  core.NodeTypeCode,
	".rs":   core.NodeTypeCode,
	".go":   core.NodeTypeCode,
	".java": core.NodeTypeCode,
	".c":    core.NodeTypeCode,
	".cpp":  core.NodeTypeCode,
	".h":    core.NodeTypeCode,
	".sh":   core.NodeTypeCode,
	".yaml": core.NodeTypeCode,
	".yml":  core.NodeTypeCode,
	".toml": core.NodeTypeCode,
	".json": core.NodeTypeCode,
	".html": core.NodeTypeCode,
	".css":  core.NodeTypeCode,
}

// ExtractText decodes file bytes to text. UTF-8 input is returned as-is;
// anything else is decoded as Latin-1, which maps every byte to a rune, so
// extraction never fails — binary garbage produces a best-effort string.
func ExtractText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// DetectNodeType resolves a node type from the filename's extension,
// case-insensitively. Returns Note for unknown or missing extensions.
func DetectNodeType(filename string) core.NodeType {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extToNodeType[ext]; ok {
		return t
	}
	return core.NodeTypeNote
}

// IsSupported reports whether the filename's extension has an explicit
// type mapping.
func IsSupported(filename string) bool {
	_, ok := extToNodeType[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// DeriveTitle produces a node title. The override wins when set; otherwise
// the filename is stripped of its extension and humanized. When both are
// absent the title is generated from the timestamp.
func DeriveTitle(filename, override string, now time.Time) string {
	if override != "" {
		return override
	}
	if filename != "" {
		return humanize(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	}
	return "Untitled " + now.UTC().Format("2006-01-02 15:04:05")
}

// humanize converts snake_case / kebab-case file stems to a readable title.
func humanize(stem string) string {
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	words := strings.Fields(stem)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		words[i] = strings.ToUpper(string(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// AutoTags generates tags from file metadata: the extension (without the
// dot) plus a marker that the node came from an upload.
func AutoTags(filename string) []string {
	var tags []string
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		tags = append(tags, strings.TrimPrefix(ext, "."))
	}
	return append(tags, "uploaded")
}
