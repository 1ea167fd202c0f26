package auction

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
)

var (
	ErrAuctionNotFound = apperrors.NotFound("Auction not found")
	ErrNotYourAuction  = apperrors.Forbidden("Not your auction")
	ErrAuctionEnded    = apperrors.New(apperrors.ErrInvalidState, "Auction has ended")
)

type CreateInput struct {
	Title       string
	Description string
	Image       string
	StartingBid float64
	EndTime     time.Time
}

// Patch holds the fields to change; nil fields are left as they are.
type Patch struct {
	Title       *string
	Description *string
	Image       *string
	StartingBid *float64
	EndTime     *time.Time
}

type BidInput struct {
	Amount    float64
	MaxAmount *float64
}

type Recorder interface {
	RecordAuctionCreated()
	RecordBidPlaced()
}

type IAuctionService interface {
	CreateForUser(ctx context.Context, userID string, in CreateInput) (*models.Auction, error)
	UpdateForUser(ctx context.Context, userID, auctionID string, patch Patch) (*models.Auction, error)
	ListActive(ctx context.Context) ([]models.Auction, error)
	FindByID(ctx context.Context, id string) (*models.Auction, error)
	BidOnAuction(ctx context.Context, userID, auctionID string, in BidInput) (*models.Bid, error)
	ListForUser(ctx context.Context, userID string) ([]models.Auction, error)
}

type auctionService struct {
	auctions repository.AuctionRepository
	bids     repository.BidRepository
	recorder Recorder
	text     *bluemonday.Policy
}

var _ IAuctionService = (*auctionService)(nil)

func NewAuctionService(auctions repository.AuctionRepository, bids repository.BidRepository, recorder Recorder) IAuctionService {
	return &auctionService{
		auctions: auctions,
		bids:     bids,
		recorder: recorder,
		text:     bluemonday.StrictPolicy(),
	}
}

func (svc *auctionService) CreateForUser(ctx context.Context, userID string, in CreateInput) (*models.Auction, error) {
	now := clock.Now(ctx)
	a := &models.Auction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       svc.plainText(in.Title),
		Description: svc.plainText(in.Description),
		Image:       strings.TrimSpace(in.Image),
		StartingBid: in.StartingBid,
		EndTime:     in.EndTime.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Bids:        []models.Bid{},
	}
	if a.Title == "" {
		return nil, apperrors.InvalidInput("title must not be empty")
	}

	if err := svc.auctions.Create(ctx, a); err != nil {
		return nil, err
	}
	if svc.recorder != nil {
		svc.recorder.RecordAuctionCreated()
	}
	zap.L().Info("auction_created", zap.String("auction_id", a.ID), zap.String("user_id", userID))
	return a, nil
}

func (svc *auctionService) UpdateForUser(ctx context.Context, userID, auctionID string, patch Patch) (*models.Auction, error) {
	a, err := svc.auctions.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAuctionNotFound
	}
	if a.UserID != userID {
		return nil, ErrNotYourAuction
	}

	if patch.Title != nil {
		a.Title = svc.plainText(*patch.Title)
		if a.Title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
	}
	if patch.Description != nil {
		a.Description = svc.plainText(*patch.Description)
	}
	if patch.Image != nil {
		a.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.StartingBid != nil {
		a.StartingBid = *patch.StartingBid
	}
	if patch.EndTime != nil {
		a.EndTime = patch.EndTime.UTC()
	}
	a.UpdatedAt = clock.Now(ctx)

	if err := svc.auctions.Update(ctx, a); err != nil {
		return nil, err
	}
	zap.L().Info("auction_updated", zap.String("auction_id", a.ID))
	return a, nil
}

func (svc *auctionService) ListActive(ctx context.Context) ([]models.Auction, error) {
	return svc.auctions.ListActive(ctx, clock.Now(ctx))
}

func (svc *auctionService) FindByID(ctx context.Context, id string) (*models.Auction, error) {
	a, err := svc.auctions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAuctionNotFound
	}
	return a, nil
}

// BidOnAuction records a bid while the auction is still running. The amount
// is not compared with earlier bids, and MaxAmount is stored as given.
func (svc *auctionService) BidOnAuction(ctx context.Context, userID, auctionID string, in BidInput) (*models.Bid, error) {
	a, err := svc.auctions.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAuctionNotFound
	}

	now := clock.Now(ctx)
	if !a.IsActive(now) {
		return nil, ErrAuctionEnded
	}

	bid := &models.Bid{
		ID:        uuid.NewString(),
		AuctionID: a.ID,
		UserID:    userID,
		Amount:    in.Amount,
		MaxAmount: in.MaxAmount,
		CreatedAt: now,
	}
	if err := svc.bids.Create(ctx, bid); err != nil {
		return nil, err
	}
	if svc.recorder != nil {
		svc.recorder.RecordBidPlaced()
	}
	zap.L().Info("bid_placed",
		zap.String("auction_id", a.ID),
		zap.String("user_id", userID),
		zap.Float64("amount", in.Amount),
	)
	return bid, nil
}

func (svc *auctionService) ListForUser(ctx context.Context, userID string) ([]models.Auction, error) {
	return svc.auctions.ListByUser(ctx, userID)
}

// plainText strips markup and stores the text unescaped, so re-submitting a
// returned value leaves it unchanged.
func (svc *auctionService) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(svc.text.Sanitize(s)))
}
