package domain

import "time"

// Principal is the identity provider's answer to "who is this user". The
// UID is the provider's durable unique identifier and is treated as ground
// truth; everything stored locally must agree with it.
type Principal struct {
	UID   string
	Email string
}

// User is the authorization record stored in the users collection, keyed by
// email. Exactly one record per email is an invariant the repository
// enforces on read.
type User struct {
	ID        string    `bson:"_id,omitempty"`
	UID       string    `bson:"uid"`
	Email     string    `bson:"email"`
	WorkerID  string    `bson:"workerID,omitempty"`
	FullName  string    `bson:"fullName,omitempty"`
	IsAdmin   bool      `bson:"isAdmin"`
	CreatedAt time.Time `bson:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}
