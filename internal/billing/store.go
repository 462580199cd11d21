package billing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Paid subscriptions are valid for 30 days from creation.
const subscriptionValidity = 30 * 24 * time.Hour

type Subscription struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	PlanID     string    `json:"planId"`
	PaymentID  string    `json:"paymentId"`
	CreatedAt  time.Time `json:"createdAt"`
	ValidUntil time.Time `json:"validUntil"`
}

// Store persists subscription records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// EnsureSchema creates the subscriptions table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS subscriptions (
			id          BIGSERIAL PRIMARY KEY,
			user_id     TEXT NOT NULL,
			plan_id     TEXT NOT NULL,
			payment_id  TEXT NOT NULL UNIQUE,
			created_at  TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

// InsertSubscription records a verified payment with a 30-day window.
func (s *Store) InsertSubscription(ctx context.Context, userID, planID, paymentID string) (Subscription, error) {
	created := time.Now()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, plan_id, payment_id, created_at, valid_until)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, planID, paymentID, created, created.Add(subscriptionValidity))

	sub := Subscription{
		UserID:     userID,
		PlanID:     planID,
		PaymentID:  paymentID,
		CreatedAt:  created,
		ValidUntil: created.Add(subscriptionValidity),
	}
	if err := row.Scan(&sub.ID); err != nil {
		return Subscription{}, err
	}
	log.Info().Str("module", "billing.store").Str("user", userID).Str("plan", planID).Msg("subscription recorded")
	return sub, nil
}
