package entity

import "time"

// ShellCacheEntry is one cached web shell response, keyed by cache version
// and request URI.
type ShellCacheEntry struct {
	Version   string              `gorm:"primaryKey;size:100"`
	URI       string              `gorm:"primaryKey;size:512"`
	Status    int                 `gorm:"not null"`
	Header    map[string][]string `gorm:"serializer:json;type:text"`
	Body      []byte
	UpdatedAt time.Time
}

// TableName returns the table name for ShellCacheEntry
func (ShellCacheEntry) TableName() string {
	return "shell_cache_entries"
}
