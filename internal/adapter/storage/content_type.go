package storage

import (
	"path/filepath"
	"strings"
)

var archiveContentTypes = map[string]string{
	".zip": "application/zip",
	".gz":  "application/gzip",
	".zst": "application/zstd",
	".xz":  "application/x-xz",
	".lz4": "application/x-lz4",
	".br":  "application/x-brotli",
}

func contentType(name string) string {
	if ct, ok := archiveContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
