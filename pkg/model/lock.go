package model

import "time"

// Lock is an advisory lock document. A second insert with the same ID fails
// with a duplicate key error; a TTL index removes locks a crashed holder left behind.
type Lock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
