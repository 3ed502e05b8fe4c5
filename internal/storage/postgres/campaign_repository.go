package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// CampaignRepository serves campaign lifecycle and moderation. It satisfies
// both app.CampaignRepository and app.AdminRepository.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CampaignRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
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

func (r *CampaignRepository) UpdateUserRole(ctx context.Context, id string, role domain.UserRole) error {
	const stmt = `UPDATE users SET role = $2 WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *CampaignRepository) CreateCampaign(ctx context.Context, c domain.Campaign) error {
	const stmt = `
INSERT INTO campaigns (id, owner_id, title, description, category, goal_amount, current_amount, status, start_date, end_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		c.ID, c.OwnerID, c.Title, c.Description, c.Category,
		c.GoalAmount.String(), c.CurrentAmount.String(), c.Status,
		c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) CreateRewardTier(ctx context.Context, t domain.RewardTier) error {
	const stmt = `
INSERT INTO reward_tiers (id, campaign_id, title, description, minimum_amount, max_backers, current_backers, estimated_delivery, is_active)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		t.ID, t.CampaignID, t.Title, t.Description,
		t.MinimumAmount.String(), t.MaxBackers, t.CurrentBackers, t.EstimatedDelivery, t.IsActive,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCampaignNotFound
		}
		return fmt.Errorf("create reward tier: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns)
	return scanCampaignRow(r.queryRow(ctx, query, id))
}

func (r *CampaignRepository) ListRewardTiers(ctx context.Context, campaignID string) ([]domain.RewardTier, error) {
	query := fmt.Sprintf(`SELECT %s FROM reward_tiers WHERE campaign_id = $1 ORDER BY minimum_amount ASC`, tierColumns)
	rows, err := r.query(ctx, query, campaignID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list reward tiers: %w", err)
	}
	defer rows.Close()

	var tiers []domain.RewardTier
	for rows.Next() {
		var t domain.RewardTier
		var minimum string
		if err := rows.Scan(&t.ID, &t.CampaignID, &t.Title, &t.Description,
			&minimum, &t.MaxBackers, &t.CurrentBackers, &t.EstimatedDelivery, &t.IsActive); err != nil {
			return nil, fmt.Errorf("scan reward tier: %w", err)
		}
		if t.MinimumAmount, err = decimal.NewFromString(minimum); err != nil {
			return nil, fmt.Errorf("parse minimum amount: %w", err)
		}
		tiers = append(tiers, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reward tiers: %w", rows.Err())
	}
	return tiers, nil
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, filter app.CampaignFilter) ([]domain.Campaign, error) {
	if filter.Status != nil {
		query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, campaignColumns)
		return r.listCampaigns(ctx, query, *filter.Status, filter.Limit, filter.Offset)
	}
	query := fmt.Sprintf(`SELECT %s FROM campaigns ORDER BY created_at DESC LIMIT $1 OFFSET $2`, campaignColumns)
	return r.listCampaigns(ctx, query, filter.Limit, filter.Offset)
}

func (r *CampaignRepository) ListCampaignsByStatus(ctx context.Context, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`, campaignColumns)
	return r.listCampaigns(ctx, query, status, limit, offset)
}

func (r *CampaignRepository) listCampaigns(ctx context.Context, query string, args ...any) ([]domain.Campaign, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaignRow(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", rows.Err())
	}
	return campaigns, nil
}

func (r *CampaignRepository) UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus, updatedAt time.Time) error {
	const stmt = `UPDATE campaigns SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id, status, updatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func scanCampaignRow(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	var goal, current string
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Category,
		&goal, &current, &c.Status, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Campaign{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Campaign{}, domain.ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("scan campaign: %w", err)
	}
	if c.GoalAmount, err = decimal.NewFromString(goal); err != nil {
		return domain.Campaign{}, fmt.Errorf("parse goal amount: %w", err)
	}
	if c.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return domain.Campaign{}, fmt.Errorf("parse current amount: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CampaignRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *CampaignRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
