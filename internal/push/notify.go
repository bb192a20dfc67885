package push

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthside/hearth/internal/chore"
	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
)

// Notifier fans a payload out to every subscribed device and prunes
// subscriptions the push service reports gone.
type Notifier struct {
	service *Service
	subs    *localstore.SubscriptionStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *localstore.SubscriptionStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{service: service, subs: subs, logger: logger}
}

// NotifyAll sends the payload to every subscription. Send failures are
// logged per device; an expired endpoint is deleted.
func (n *Notifier) NotifyAll(payload Payload) {
	subs, err := n.subs.List()
	if err != nil {
		n.logger.Warn("list push subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := subs[i]
		err := n.service.Send(&sub, payload)
		if errors.Is(err, ErrExpired) {
			if derr := n.subs.DeleteByEndpoint(sub.Endpoint); derr != nil {
				n.logger.Warn("prune expired subscription", "error", derr)
			}
			continue
		}
		if err != nil {
			n.logger.Warn("send push", "subscription_id", sub.ID, "error", err)
		}
	}
}

// RewardRequested announces a new pending wishlist entry.
func (n *Notifier) RewardRequested(reward model.Reward, requesterName string) {
	n.NotifyAll(Payload{
		Title: "Reward request",
		Body:  fmt.Sprintf("%s wants %q (%d points)", requesterName, reward.Title, reward.PointCost),
		URL:   "/rewards",
		Tag:   "reward-" + reward.ID,
	})
}

// MorningReminder counts the chores due today that are still open.
func (n *Notifier) MorningReminder(f *state.Family) {
	today := time.Now()
	open := 0
	for _, c := range f.Chores {
		if !c.Done && chore.DueToday(c, today) {
			open++
		}
	}
	if open == 0 {
		return
	}

	n.NotifyAll(Payload{
		Title: "Today's chores",
		Body:  fmt.Sprintf("%d chores are waiting this morning", open),
		URL:   "/chores",
		Tag:   "morning-reminder",
	})
}
