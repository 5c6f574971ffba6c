package aggregator

import (
	"context"
	"sync"

	"github.com/wrenfield/curator/internal/domain"
	"github.com/wrenfield/curator/internal/feed"
	"github.com/wrenfield/curator/internal/logger"
)

// Resolver selects the adapter responsible for a subscription URL.
type Resolver interface {
	Resolve(url string) feed.Adapter
}

// Orchestrator runs aggregation passes: fan out to every active
// subscription through its adapter, fan in with per-source fault
// isolation, merge-sort by recency, replace the view.
//
// A pass is a stateless batch recomputation. There is no cancellation of
// in-flight passes and no sequencing between passes: a newer trigger just
// starts an independent pass, and the last one to finish wins the view.
type Orchestrator struct {
	resolver Resolver
	view     *View
	logger   logger.Logger
}

func New(resolver Resolver, view *View, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		view:     view,
		logger:   log,
	}
}

// View exposes the visible resource list this orchestrator writes to.
func (o *Orchestrator) View() *View {
	return o.view
}

// FetchAll recomputes the merged resource list from scratch. Inactive
// subscriptions are skipped; an empty active set empties the view without
// any network calls. A failing source contributes an empty result and
// never aborts the pass.
func (o *Orchestrator) FetchAll(ctx context.Context, subs []domain.Subscription) {
	active := domain.ActiveSubscriptions(subs)
	if len(active) == 0 {
		o.view.Replace(nil)
		return
	}

	results := make([][]domain.Resource, len(active))
	var wg sync.WaitGroup
	for i, sub := range active {
		wg.Add(1)
		go func(i int, sub domain.Subscription) {
			defer wg.Done()

			adapter := o.resolver.Resolve(sub.URL)
			items, err := adapter.Fetch(ctx, sub.URL, sub.Keywords)
			if err != nil {
				// Isolated failure: the source is simply absent from
				// this pass.
				o.logger.Warn("source fetch failed",
					logger.String("url", sub.URL),
					logger.String("adapter", adapter.Name()),
					logger.Error(err))
				return
			}

			for j := range items {
				items[j].Origin = sub.URL
			}
			results[i] = items
		}(i, sub)
	}
	wg.Wait()

	merged := make([]domain.Resource, 0, len(active)*16)
	for _, items := range results {
		merged = append(merged, items...)
	}
	domain.SortByPublished(merged)

	o.view.Replace(merged)
	o.logger.Info("aggregation pass completed",
		logger.Int("sources", len(active)),
		logger.Int("resources", len(merged)))
}
