package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wrenfield/curator/internal/domain"
)

// ShareFeed publishes a feed URL to the public library. The URL must not
// already be shared; exact string equality is the only dedup rule, so
// trailing-slash variants of the same feed are distinct entries.
func (s *Store) ShareFeed(ctx context.Context, userID, url, description string) (domain.PublicFeed, error) {
	if userID == "" {
		return domain.PublicFeed{}, fmt.Errorf("share feed: %w", domain.ErrUnauthenticated)
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.library.FindOne(opCtx, bson.M{"url": url}).Err()
	if err == nil {
		return domain.PublicFeed{}, fmt.Errorf("share feed %s: %w", url, domain.ErrDuplicate)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return domain.PublicFeed{}, fmt.Errorf("share feed %s: %w", url, err)
	}

	entry := domain.PublicFeed{
		ID:          uuid.NewString(),
		URL:         url,
		Description: description,
		SharedBy:    userID,
		SharedAt:    time.Now().UTC(),
		Likes:       0,
	}

	if _, err := s.library.InsertOne(opCtx, entry); err != nil {
		// The unique index catches shares that raced past the lookup.
		if mongo.IsDuplicateKeyError(err) {
			return domain.PublicFeed{}, fmt.Errorf("share feed %s: %w", url, domain.ErrDuplicate)
		}
		return domain.PublicFeed{}, fmt.Errorf("share feed %s: %w", url, err)
	}

	return entry, nil
}

// DeleteFromLibrary removes a shared entry by id. Any authenticated user
// may delete any entry; there is no ownership check.
func (s *Store) DeleteFromLibrary(ctx context.Context, id string) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.library.DeleteOne(opCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete library entry %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete library entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListLibrary returns all shared feeds, newest first.
func (s *Store) ListLibrary(ctx context.Context) ([]domain.PublicFeed, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.library.Find(opCtx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "sharedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer cursor.Close(opCtx)

	var feeds []domain.PublicFeed
	if err := cursor.All(opCtx, &feeds); err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	return feeds, nil
}
