package domain

import "time"

// ProgressRecord is the durable resumable cursor for one
// (user, media type, sort strategy) generation stream. At most one record
// exists per key; it is created lazily on first generation.
type ProgressRecord struct {
	ID             string
	UserID         string
	MediaType      MediaType
	SortBy         SortBy
	CurrentPage    int
	CurrentIndex   int
	TotalGenerated int
	LastMediaID    int64
	LastUpdated    time.Time
}

// ProgressPatch carries partial cursor updates; nil fields are left as-is.
type ProgressPatch struct {
	CurrentPage    *int
	CurrentIndex   *int
	TotalGenerated *int
	LastMediaID    *int64
}

// IntPtr is a small helper for building patches.
func IntPtr(v int) *int { return &v }

// Int64Ptr is a small helper for building patches.
func Int64Ptr(v int64) *int64 { return &v }
