package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fieldops/authbridge/domain"
)

// UserRepository implements domain.UserRepository over the users collection.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a UserRepository and ensures its indexes.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	repo := &UserRepository{
		users: db.Collection(UsersCollection),
	}
	if err := repo.createIndexes(ctx); err != nil {
		// Index creation commonly fails when a compatible index already
		// exists; the repository still works without it.
		log.Warn().Err(err).Msg("Failed to create user indexes")
	}
	return repo, nil
}

func (r *UserRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			// Case-insensitive unique email. One record per email is a
			// business rule; the index backs it at the storage level.
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
		{
			Keys: bson.D{{Key: "uid", Value: 1}},
		},
	}

	_, err := r.users.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes for users collection: %w", err)
	}
	return nil
}

// GetUserByEmail returns the single authorization record matching email.
// Zero matches is domain.ErrUserNotFound. Two or more matches is
// domain.ErrAmbiguousUser rather than a silent pick-first: duplicates mean
// the unique-email invariant is broken and login must not guess.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{"email": email}, options.Find().SetLimit(2))
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Error querying users by email")
		return nil, fmt.Errorf("query users by email: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users by email: %w", err)
	}

	switch len(users) {
	case 0:
		return nil, domain.ErrUserNotFound
	case 1:
		return &users[0], nil
	default:
		log.Error().Str("email", email).Msg("Multiple user records share one email")
		return nil, domain.ErrAmbiguousUser
	}
}
