package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wrenfield/curator/internal/domain"
)

// feedList decodes the feeds array of a user document. Old documents hold
// bare URL strings, new ones hold full subscription records; both shapes
// may appear in the same array. Bare strings are upgraded on read to
// active subscriptions with the read time as addedAt.
type feedList []domain.Subscription

func (f *feedList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*f = nil
		return nil
	case bsontype.Array:
	default:
		return fmt.Errorf("feeds: cannot decode %s into a subscription list", t)
	}

	values, err := bson.Raw(data).Values()
	if err != nil {
		return fmt.Errorf("feeds: %w", err)
	}

	subs := make([]domain.Subscription, 0, len(values))
	now := time.Now().UTC()
	for _, v := range values {
		switch v.Type {
		case bsontype.String:
			subs = append(subs, domain.Subscription{
				URL:      v.StringValue(),
				IsActive: true,
				AddedAt:  now,
			})
		case bsontype.EmbeddedDocument:
			var s domain.Subscription
			if err := bson.Unmarshal(bson.Raw(v.Value), &s); err != nil {
				return fmt.Errorf("feeds: %w", err)
			}
			subs = append(subs, s)
		default:
			return fmt.Errorf("feeds: unexpected element type %s", v.Type)
		}
	}

	*f = feedList(subs)
	return nil
}

type userDocument struct {
	ID    string   `bson:"_id"`
	Feeds feedList `bson:"feeds"`
}

// EnsureUser creates the user's subscription document if it does not
// exist yet. Safe to call on every login.
func (s *Store) EnsureUser(ctx context.Context, userID string) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.users.UpdateByID(opCtx, userID,
		bson.M{"$setOnInsert": bson.M{"feeds": bson.A{}}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

// GetSubscriptions returns the user's subscription list, upgrading any
// legacy bare-string entries. A missing document yields an empty list.
func (s *Store) GetSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	var doc userDocument
	err := s.users.FindOne(opCtx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriptions for %s: %w", userID, err)
	}
	return doc.Feeds, nil
}

// AddFeed appends a new active subscription. Adding a URL that is already
// present is a no-op.
func (s *Store) AddFeed(ctx context.Context, userID, url string) error {
	current, err := s.GetSubscriptions(ctx, userID)
	if err != nil {
		return err
	}
	if _, exists := domain.FindSubscription(current, url); exists {
		return nil
	}

	sub := domain.Subscription{
		URL:      url,
		Name:     url,
		IsActive: true,
		AddedAt:  time.Now().UTC(),
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	_, err = s.users.UpdateByID(opCtx, userID,
		bson.M{"$push": bson.M{"feeds": sub}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("add feed %s: %w", url, err)
	}
	return nil
}

// RemoveFeed deletes the subscription with the given URL. The whole array
// is rewritten so legacy bare-string entries are removed (and upgraded)
// too. Removing an unknown URL is a no-op.
func (s *Store) RemoveFeed(ctx context.Context, userID, url string) error {
	return s.rewriteFeeds(ctx, userID, func(feeds []domain.Subscription) ([]domain.Subscription, error) {
		kept := make([]domain.Subscription, 0, len(feeds))
		for _, f := range feeds {
			if f.URL != url {
				kept = append(kept, f)
			}
		}
		return kept, nil
	})
}

// ToggleFeed flips the isActive flag of the subscription with the given
// URL.
func (s *Store) ToggleFeed(ctx context.Context, userID, url string) error {
	return s.rewriteFeeds(ctx, userID, func(feeds []domain.Subscription) ([]domain.Subscription, error) {
		for i := range feeds {
			if feeds[i].URL == url {
				feeds[i].IsActive = !feeds[i].IsActive
				return feeds, nil
			}
		}
		return nil, fmt.Errorf("toggle feed %s: %w", url, domain.ErrNotFound)
	})
}

// UpdateKeywords replaces the keyword list of the subscription with the
// given URL.
func (s *Store) UpdateKeywords(ctx context.Context, userID, url string, keywords []string) error {
	return s.rewriteFeeds(ctx, userID, func(feeds []domain.Subscription) ([]domain.Subscription, error) {
		for i := range feeds {
			if feeds[i].URL == url {
				feeds[i].Keywords = keywords
				return feeds, nil
			}
		}
		return nil, fmt.Errorf("update keywords for %s: %w", url, domain.ErrNotFound)
	})
}

// rewriteFeeds reads the current list, applies mutate and writes the
// whole array back. Last write wins; per-element concurrent edits are not
// reconciled.
func (s *Store) rewriteFeeds(ctx context.Context, userID string, mutate func([]domain.Subscription) ([]domain.Subscription, error)) error {
	current, err := s.GetSubscriptions(ctx, userID)
	if err != nil {
		return err
	}

	updated, err := mutate(current)
	if err != nil {
		return err
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	_, err = s.users.UpdateByID(opCtx, userID,
		bson.M{"$set": bson.M{"feeds": updated}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rewrite feeds for %s: %w", userID, err)
	}
	return nil
}
