package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key holding an admin's current token ID.
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("admin:%d:session", adminID)
}

// ScheduleMigrationKey returns the lock key serializing migration runs for a month (YYYY-MM).
func (r *CacheKeyStruct) ScheduleMigrationKey(month string) string {
	return fmt.Sprintf("schedule_migration:%s", month)
}

// ChangesChannel returns the Redis PubSub channel carrying activity entries to live clients.
func (r *CacheKeyStruct) ChangesChannel() string {
	return "daycare:changes"
}

var CacheKey = NewCacheKeyStruct()
