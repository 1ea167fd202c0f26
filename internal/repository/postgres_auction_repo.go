package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
)

const auctionWithBidsSelect = `
	SELECT a.id, a.user_id, a.title, a.description, a.image, a.starting_bid,
	       a.end_time, a.created_at, a.updated_at,
	       b.id, b.user_id, b.amount, b.max_amount, b.created_at
	  FROM auctions a
	  LEFT JOIN bids b ON b.auction_id = a.id`

type PostgresAuctionRepo struct {
	db *sql.DB
}

func NewPostgresAuctionRepo(db *sql.DB) *PostgresAuctionRepo {
	return &PostgresAuctionRepo{db: db}
}

// scanAuctions folds auction x bid rows. Auction order is the order of first
// appearance, bid order is the row order.
func scanAuctions(rows *sql.Rows) ([]models.Auction, error) {
	auctions := make([]models.Auction, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			a         models.Auction
			bidID     sql.NullString
			bidUser   sql.NullString
			amount    sql.NullFloat64
			maxAmount sql.NullFloat64
			bidAt     sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Image, &a.StartingBid,
			&a.EndTime, &a.CreatedAt, &a.UpdatedAt,
			&bidID, &bidUser, &amount, &maxAmount, &bidAt); err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		i, seen := index[a.ID]
		if !seen {
			a.Bids = make([]models.Bid, 0)
			auctions = append(auctions, a)
			i = len(auctions) - 1
			index[a.ID] = i
		}
		if !bidID.Valid {
			continue
		}
		bid := models.Bid{
			ID:        bidID.String,
			AuctionID: a.ID,
			UserID:    bidUser.String,
			Amount:    amount.Float64,
			CreatedAt: bidAt.Time,
		}
		if maxAmount.Valid {
			m := maxAmount.Float64
			bid.MaxAmount = &m
		}
		auctions[i].Bids = append(auctions[i].Bids, bid)
	}
	return auctions, rows.Err()
}

func (r *PostgresAuctionRepo) query(ctx context.Context, tail string, args ...any) ([]models.Auction, error) {
	rows, err := r.db.QueryContext(ctx, auctionWithBidsSelect+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query auctions: %w", err)
	}
	defer rows.Close()
	return scanAuctions(rows)
}

func (r *PostgresAuctionRepo) FindByID(ctx context.Context, id string) (*models.Auction, error) {
	list, err := r.query(ctx, " WHERE a.id = $1 ORDER BY b.created_at DESC", id)
	if isMalformedID(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *PostgresAuctionRepo) ListActive(ctx context.Context, now time.Time) ([]models.Auction, error) {
	return r.query(ctx, " WHERE a.end_time > $1 ORDER BY a.end_time ASC, a.id, b.created_at DESC", now)
}

func (r *PostgresAuctionRepo) ListByUser(ctx context.Context, userID string) ([]models.Auction, error) {
	return r.query(ctx, " WHERE a.user_id = $1 ORDER BY a.created_at DESC, a.id, b.created_at DESC", userID)
}

func (r *PostgresAuctionRepo) Create(ctx context.Context, a *models.Auction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auctions (id, user_id, title, description, image, starting_bid, end_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.Title, a.Description, a.Image, a.StartingBid, a.EndTime, a.CreatedAt, a.UpdatedAt,
	)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "seller does not exist", err)
	}
	if isBadAmount(err) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "starting_bid is out of range", err)
	}
	if err != nil {
		return fmt.Errorf("insert auction: %w", err)
	}
	return nil
}

func (r *PostgresAuctionRepo) Update(ctx context.Context, a *models.Auction) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auctions
		    SET title = $2, description = $3, image = $4, starting_bid = $5, end_time = $6, updated_at = $7
		  WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Image, a.StartingBid, a.EndTime, a.UpdatedAt,
	)
	if isBadAmount(err) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "starting_bid is out of range", err)
	}
	if err != nil {
		return fmt.Errorf("update auction: %w", err)
	}
	return nil
}

var _ AuctionRepository = (*PostgresAuctionRepo)(nil)

type PostgresBidRepo struct {
	db *sql.DB
}

func NewPostgresBidRepo(db *sql.DB) *PostgresBidRepo {
	return &PostgresBidRepo{db: db}
}

func (r *PostgresBidRepo) Create(ctx context.Context, b *models.Bid) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bids (id, auction_id, user_id, amount, max_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.AuctionID, b.UserID, b.Amount, b.MaxAmount, b.CreatedAt,
	)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return apperrors.Wrap(apperrors.ErrNotFound, "auction not found", err)
	}
	if isBadAmount(err) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "bid amount is out of range", err)
	}
	if err != nil {
		return fmt.Errorf("insert bid: %w", err)
	}
	return nil
}

var _ BidRepository = (*PostgresBidRepo)(nil)
