package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"civicwatch/internal/utils"
)

// Uploader is the object storage contract the report service depends on:
// write a blob under a key, resolve the key to a publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	PublicURL(key string) string
}

const mediaPrefix = "reports"

// MediaKey builds the storage key for an uploaded attachment:
// reports/<unix-ms>-<random>.<ext>. The original file name contributes only
// its extension.
func MediaKey(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	key := fmt.Sprintf("%s/%d-%s", mediaPrefix, time.Now().UnixMilli(), utils.NanoIDSize(8))
	if ext == "" {
		return key
	}
	return key + "." + ext
}
