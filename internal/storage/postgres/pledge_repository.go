package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// PledgeRepository backs the pledge transaction. Monetary columns travel as
// text on both sides of the wire so decimal precision survives the round trip.
type PledgeRepository struct {
	pool *pgxpool.Pool
}

func NewPledgeRepository(pool *pgxpool.Pool) *PledgeRepository {
	return &PledgeRepository{pool: pool}
}

func (r *PledgeRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const campaignColumns = `id, owner_id, title, description, category, goal_amount::text, current_amount::text, status, start_date, end_date, created_at, updated_at`

func (r *PledgeRepository) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns)
	return scanCampaignRow(r.queryRow(ctx, query, id))
}

func (r *PledgeRepository) GetCampaignForUpdate(ctx context.Context, id string) (domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1 FOR UPDATE`, campaignColumns)
	return scanCampaignRow(r.queryRow(ctx, query, id))
}

func (r *PledgeRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT id, email, role FROM users WHERE id = $1`
	var u domain.User
	err := r.queryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

const tierColumns = `id, campaign_id, title, description, minimum_amount::text, max_backers, current_backers, estimated_delivery, is_active`

func (r *PledgeRepository) GetRewardTier(ctx context.Context, id string) (domain.RewardTier, error) {
	query := fmt.Sprintf(`SELECT %s FROM reward_tiers WHERE id = $1`, tierColumns)
	return r.scanTier(r.queryRow(ctx, query, id))
}

func (r *PledgeRepository) GetRewardTierForUpdate(ctx context.Context, id string) (domain.RewardTier, error) {
	query := fmt.Sprintf(`SELECT %s FROM reward_tiers WHERE id = $1 FOR UPDATE`, tierColumns)
	return r.scanTier(r.queryRow(ctx, query, id))
}

func (r *PledgeRepository) scanTier(row pgx.Row) (domain.RewardTier, error) {
	var t domain.RewardTier
	var minimum string
	err := row.Scan(&t.ID, &t.CampaignID, &t.Title, &t.Description,
		&minimum, &t.MaxBackers, &t.CurrentBackers, &t.EstimatedDelivery, &t.IsActive)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.RewardTier{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.RewardTier{}, domain.ErrRewardTierNotFound
		}
		return domain.RewardTier{}, fmt.Errorf("get reward tier: %w", err)
	}
	if t.MinimumAmount, err = decimal.NewFromString(minimum); err != nil {
		return domain.RewardTier{}, fmt.Errorf("parse minimum amount: %w", err)
	}
	return t, nil
}

func (r *PledgeRepository) CreatePledge(ctx context.Context, pledge domain.Pledge) error {
	const stmt = `
INSERT INTO pledges (id, user_id, campaign_id, reward_tier_id, amount, status, payment_reference_id, created_at, processed_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		pledge.ID,
		pledge.UserID,
		pledge.CampaignID,
		pledge.RewardTierID,
		pledge.Amount.String(),
		pledge.Status,
		pledge.PaymentReferenceID,
		pledge.CreatedAt,
		pledge.ProcessedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCampaignNotFound
		}
		return fmt.Errorf("create pledge: %w", err)
	}
	return nil
}

func (r *PledgeRepository) UpdateCampaignFunding(ctx context.Context, id string, current decimal.Decimal, status domain.CampaignStatus, updatedAt time.Time) error {
	const stmt = `
UPDATE campaigns
SET current_amount = $2::numeric, status = $3, updated_at = $4
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, current.String(), status, updatedAt)
	if err != nil {
		return fmt.Errorf("update campaign funding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *PledgeRepository) IncrementTierBackers(ctx context.Context, id string) error {
	const stmt = `UPDATE reward_tiers SET current_backers = current_backers + 1 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("increment tier backers: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRewardTierNotFound
	}
	return nil
}

func (r *PledgeRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PledgeRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
