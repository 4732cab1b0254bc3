package model

import "time"

// BookingLock is an advisory lock document. Uniqueness of _id provides the
// mutual exclusion; a TTL index on expires_at reaps locks leaked by a crash.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
