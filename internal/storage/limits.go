package storage

import (
	"strings"

	"github.com/kursattkorkmazzz/garagely/internal/envconfig"
)

const megabyte = int64(1024 * 1024)

// defaultMaxSizes holds the coded per-entity-type upload ceilings, in bytes.
var defaultMaxSizes = map[EntityType]int64{
	EntityTypeUserProfile: 10 * megabyte,
}

// Limits maps each entity type to its maximum upload size in bytes.
type Limits map[EntityType]int64

// LoadLimits resolves per-entity-type upload limits. Each entity type can be
// overridden through STORAGE_MAX_SIZE_<ENTITY_TYPE> (value in MB).
func LoadLimits() Limits {
	limits := make(Limits, len(defaultMaxSizes))
	for entityType, fallback := range defaultMaxSizes {
		envKey := "STORAGE_MAX_SIZE_" + strings.ToUpper(string(entityType))
		if mb := envconfig.GetInt64(envKey, 0); mb > 0 {
			limits[entityType] = mb * megabyte
			continue
		}
		limits[entityType] = fallback
	}
	return limits
}

// MaxFileSize returns the upload ceiling for an entity type in bytes.
func (l Limits) MaxFileSize(entityType EntityType) int64 {
	if size, ok := l[entityType]; ok {
		return size
	}
	return defaultMaxSizes[EntityTypeUserProfile]
}

// MaxUploadSize returns the largest configured limit across all entity
// types; the HTTP layer uses it to cap multipart request bodies.
func (l Limits) MaxUploadSize() int64 {
	max := int64(0)
	for _, size := range l {
		if size > max {
			max = size
		}
	}
	if max == 0 {
		return defaultMaxSizes[EntityTypeUserProfile]
	}
	return max
}

// maxSizeMB reports a limit in whole megabytes, rounded, for messages.
func maxSizeMB(size int64) int64 {
	return (size + megabyte/2) / megabyte
}
