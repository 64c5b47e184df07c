// Package gamification awards points and badges for user actions.
package gamification

import (
	"context"
	"log/slog"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

// AwardResult reports the outcome of a points award.
type AwardResult struct {
	Awarded     bool           `json:"success"`
	Amount      int            `json:"points_awarded"`
	TotalPoints int            `json:"total_points"`
	NewBadges   []*model.Badge `json:"new_badges"`
}

// Awarder records points transactions and grants threshold badges.
type Awarder struct {
	store  store.Store
	pub    events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewAwarder creates an awarder backed by the given store. Badge and points
// events are published best-effort through pub.
func NewAwarder(s store.Store, pub events.Publisher, logger *slog.Logger) *Awarder {
	return &Awarder{store: s, pub: pub, logger: logger, now: time.Now}
}

// Award grants the points for action to userID, updates the running total,
// and hands out any badge whose threshold the new total crosses. The ledger
// insert, the total bump, and the badge grants share one transaction.
// Daily check-ins are limited to one award per UTC calendar day; the
// profile-completion bonus is limited to one award per user.
func (a *Awarder) Award(ctx context.Context, userID string, action model.ActionType, referenceID string) (AwardResult, error) {
	amount := model.PointsFor(action)
	if amount == 0 {
		return AwardResult{}, nil
	}

	switch action {
	case model.ActionDailyLogin:
		last, err := a.store.LastPointsAward(ctx, userID, action)
		if err != nil {
			return AwardResult{}, err
		}
		if last != nil && sameDay(*last, a.now()) {
			return AwardResult{}, nil
		}
	case model.ActionProfileComplete:
		// Completing a profile pays out once, ever.
		last, err := a.store.LastPointsAward(ctx, userID, action)
		if err != nil {
			return AwardResult{}, err
		}
		if last != nil {
			return AwardResult{}, nil
		}
	}

	var (
		total  int
		earned []*model.Badge
	)
	err := a.store.RunInTransaction(ctx, func(tx store.Store) error {
		txn := &model.PointsTransaction{
			UserID:      userID,
			Amount:      amount,
			Action:      action,
			ReferenceID: referenceID,
			CreatedAt:   a.now().UTC(),
		}
		var err error
		total, err = tx.RecordPoints(ctx, txn)
		if err != nil {
			return err
		}
		earned, err = tx.AwardEarnedBadges(ctx, userID)
		return err
	})
	if err != nil {
		return AwardResult{}, err
	}

	a.publish(ctx, events.TopicPointsAwarded, events.PointsAwarded{
		UserID:      userID,
		Action:      string(action),
		Amount:      amount,
		Total:       total,
		ReferenceID: referenceID,
	})
	for _, b := range earned {
		a.publish(ctx, events.TopicBadgeAwarded, events.BadgeAwarded{UserID: userID, Badge: b})
	}

	return AwardResult{
		Awarded:     true,
		Amount:      amount,
		TotalPoints: total,
		NewBadges:   earned,
	}, nil
}

func (a *Awarder) publish(ctx context.Context, topic string, event any) {
	if err := a.pub.Publish(ctx, topic, event); err != nil {
		a.logger.Warn("gamification: publish failed", "topic", topic, "err", err)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
