package localstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthside/hearth/internal/model"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionCols = `id, endpoint, p256dh_key, auth_key, user_id, created_at`

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.PushSubscription, error) {
	var s model.PushSubscription
	err := scanner.Scan(&s.ID, &s.Endpoint, &s.P256dhKey, &s.AuthKey, &s.UserID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create registers a push endpoint. Re-subscribing an existing endpoint
// refreshes its keys instead of failing the unique constraint.
func (s *SubscriptionStore) Create(endpoint, p256dh, auth, userID string) (*model.PushSubscription, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO push_subscriptions (id, endpoint, p256dh_key, auth_key, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key, user_id = excluded.user_id`,
		id, endpoint, p256dh, auth, userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionStore) List() ([]model.PushSubscription, error) {
	rows, err := s.db.Query(`SELECT ` + subscriptionCols + ` FROM push_subscriptions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *SubscriptionStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// DeleteByEndpoint prunes a subscription the push service reported gone.
func (s *SubscriptionStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription by endpoint: %w", err)
	}
	return nil
}
