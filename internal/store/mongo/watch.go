package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/logger"
)

// WatchSubscriptions opens a change stream on the user's subscription
// document and delivers the full, migrated subscription list after every
// remote change. The channel closes when ctx is cancelled or the stream
// fails; callers should treat a closed channel as the end of the session.
func (s *Store) WatchSubscriptions(ctx context.Context, userID string) (<-chan []domain.Subscription, error) {
	pipeline := mongoPipeline(bson.D{
		{Key: "$match", Value: bson.M{"documentKey._id": userID}},
	})

	stream, err := s.users.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("watch subscriptions for %s: %w", userID, err)
	}

	out := make(chan []domain.Subscription)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument userDocument `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				s.logger.Warn("subscription change event decode failed",
					logger.String("user", userID), logger.Error(err))
				continue
			}
			select {
			case out <- []domain.Subscription(event.FullDocument.Feeds):
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.logger.Warn("subscription change stream ended",
				logger.String("user", userID), logger.Error(err))
		}
	}()

	return out, nil
}

// WatchLibrary opens a change stream on the public library collection and
// delivers the full entry list after every change. Events carry no
// payload of their own; each one triggers a fresh list.
func (s *Store) WatchLibrary(ctx context.Context) (<-chan []domain.PublicFeed, error) {
	stream, err := s.library.Watch(ctx, mongoPipeline())
	if err != nil {
		return nil, fmt.Errorf("watch library: %w", err)
	}

	out := make(chan []domain.PublicFeed)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			feeds, err := s.ListLibrary(ctx)
			if err != nil {
				s.logger.Warn("library refresh after change failed", logger.Error(err))
				continue
			}
			select {
			case out <- feeds:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.logger.Warn("library change stream ended", logger.Error(err))
		}
	}()

	return out, nil
}

func mongoPipeline(stages ...bson.D) []bson.D {
	if stages == nil {
		return []bson.D{}
	}
	return stages
}
