package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/authbridge/domain"
	"github.com/fieldops/authbridge/mongodb"
	"github.com/fieldops/authbridge/mongodb/testutil"
)

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, cleanup := testutil.SetupTestMongoDB(t, "authbridge_users")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo, err := mongodb.NewUserRepository(ctx, db)
	require.NoError(t, err)

	users := db.Collection(mongodb.UsersCollection)
	_, err = users.InsertOne(ctx, domain.User{
		ID:       "doc-1",
		UID:      "U1",
		Email:    "a@x.com",
		WorkerID: "W42",
		FullName: "Ada Example",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	t.Run("single match", func(t *testing.T) {
		user, err := repo.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "U1", user.UID)
		assert.Equal(t, "W42", user.WorkerID)
		assert.Equal(t, "Ada Example", user.FullName)
		assert.True(t, user.IsAdmin)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := repo.GetUserByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("duplicate emails rejected", func(t *testing.T) {
		// Legacy data may predate the unique index. If the insert is
		// blocked the invariant holds at the storage level; if it slips
		// in, the read side must refuse to pick one.
		_, err := users.InsertOne(ctx, domain.User{
			ID:      "doc-2",
			UID:     "U2",
			Email:   "a@x.com",
			IsAdmin: false,
		})
		if err != nil {
			t.Skip("unique index enforced at storage level; ambiguity cannot be constructed")
		}

		_, err = repo.GetUserByEmail(ctx, "a@x.com")
		assert.ErrorIs(t, err, domain.ErrAmbiguousUser)
	})
}
