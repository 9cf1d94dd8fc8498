package upload

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateStorageKey builds a storage key from an upload timestamp, a random
// suffix and the original filename. The key is deterministic given its
// inputs: "<unix-millis>-<suffix><ext>", with the extension lowercased and
// taken from the original filename.
func GenerateStorageKey(ts time.Time, suffix, originalFilename string) string {
	ext := strings.ToLower(path.Ext(originalFilename))
	return fmt.Sprintf("%d-%s%s", ts.UnixMilli(), suffix, ext)
}

// NewStorageKey generates a key for a fresh upload using the current time
// and a random suffix.
func NewStorageKey(originalFilename string) string {
	suffix := uuid.NewString()[:8]
	return GenerateStorageKey(time.Now(), suffix, originalFilename)
}
