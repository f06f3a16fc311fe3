// services/promotion/promotion.go
package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/config"
	listingRepo "gatherly/database/repository/listing"
	promotionRepo "gatherly/database/repository/promotion"
	providerRepo "gatherly/database/repository/provider"
	"gatherly/models"
	"gatherly/services/payment"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrActiveDealExists enforces at most one live hot deal per listing.
var ErrActiveDealExists = errors.New("listing already has an active hot deal")

// PromotionService defines hot deal operations.
type PromotionService interface {
	CreatePromotion(ctx context.Context, providerID string, in models.PromotionCreateInput) (*models.Promotion, error)
	CancelPromotion(ctx context.Context, providerID, promotionID string) error
	GetProviderPromotions(ctx context.Context, providerID string) ([]models.Promotion, error)

	// Sweeps run from the background worker.
	ActivateDue(ctx context.Context, now time.Time) (int, error)
	ExpireElapsed(ctx context.Context, now time.Time) (int, error)
}

// DefaultPromotionService is the production implementation of PromotionService.
type DefaultPromotionService struct {
	Repo          promotionRepo.PromotionRepository
	Listings      listingRepo.ListingRepository
	Providers     providerRepo.ProviderRepository
	Subscriptions payment.SubscriptionHandler
}

func NewDefaultPromotionService(
	repo promotionRepo.PromotionRepository,
	listings listingRepo.ListingRepository,
	providers providerRepo.ProviderRepository,
	subscriptions payment.SubscriptionHandler,
) *DefaultPromotionService {
	return &DefaultPromotionService{
		Repo:          repo,
		Listings:      listings,
		Providers:     providers,
		Subscriptions: subscriptions,
	}
}

// CreatePromotion opens a Stripe subscription for promoted placement and
// records the deal. Deals starting now go live immediately; future ones wait
// for the activation sweep.
func (s *DefaultPromotionService) CreatePromotion(ctx context.Context, providerID string, in models.PromotionCreateInput) (*models.Promotion, error) {
	if in.PercentOff < 1 || in.PercentOff > 90 {
		return nil, fmt.Errorf("percent off must be between 1 and 90")
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, fmt.Errorf("promotion start must be before its end")
	}

	listing, err := s.Listings.GetByID(in.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s not found", in.ListingID)
	}
	if listing.ProviderID != providerID {
		return nil, fmt.Errorf("listing %s does not belong to provider %s", in.ListingID, providerID)
	}

	if active, err := s.Repo.GetActiveByListing(in.ListingID); err != nil {
		return nil, fmt.Errorf("failed to check active promotions: %w", err)
	} else if active != nil {
		return nil, ErrActiveDealExists
	}

	prov, err := s.Providers.GetByID(providerID)
	if err != nil || prov == nil {
		return nil, fmt.Errorf("failed to fetch provider: %w", err)
	}

	subID, err := s.Subscriptions.CreateSubscription(prov.Email, prov.BusinessName, config.AppConfig.StripePromotionPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to set up promotion billing: %w", err)
	}

	now := time.Now().UTC()
	status := models.PromotionStatusScheduled
	if !in.StartsAt.After(now) {
		status = models.PromotionStatusActive
	}

	promo := &models.Promotion{
		ID:                   uuid.New().String(),
		ListingID:            in.ListingID,
		ProviderID:           providerID,
		PercentOff:           in.PercentOff,
		StartsAt:             in.StartsAt.UTC(),
		EndsAt:               in.EndsAt.UTC(),
		Status:               status,
		StripeSubscriptionID: subID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Repo.Create(promo); err != nil {
		if cerr := s.Subscriptions.CancelSubscription(subID); cerr != nil {
			utils.GetLogger().Error("CreatePromotion: orphaned stripe subscription",
				zap.String("subscription", subID), zap.Error(cerr))
		}
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	if status == models.PromotionStatusActive {
		s.applyDeal(promo)
	}
	return promo, nil
}

// CancelPromotion ends the deal and its Stripe subscription.
func (s *DefaultPromotionService) CancelPromotion(ctx context.Context, providerID, promotionID string) error {
	promo, err := s.Repo.GetByID(promotionID)
	if err != nil {
		return fmt.Errorf("failed to fetch promotion: %w", err)
	}
	if promo == nil || promo.ProviderID != providerID {
		return fmt.Errorf("promotion %s not found", promotionID)
	}
	if promo.Status == models.PromotionStatusExpired || promo.Status == models.PromotionStatusCancelled {
		return nil
	}

	if err := s.Repo.UpdateStatus(promotionID, models.PromotionStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel promotion: %w", err)
	}
	s.clearDeal(promo)

	if err := s.Subscriptions.CancelSubscription(promo.StripeSubscriptionID); err != nil {
		utils.GetLogger().Error("CancelPromotion: stripe cancellation failed",
			zap.String("promotion", promotionID), zap.Error(err))
	}
	return nil
}

func (s *DefaultPromotionService) GetProviderPromotions(ctx context.Context, providerID string) ([]models.Promotion, error) {
	return s.Repo.GetByProviderID(providerID)
}

// ActivateDue flips scheduled promotions whose start has passed to active and
// stamps the deal onto their listings.
func (s *DefaultPromotionService) ActivateDue(ctx context.Context, now time.Time) (int, error) {
	promos, err := s.Repo.ActivateDue(now)
	if err != nil {
		return 0, err
	}
	for i := range promos {
		s.applyDeal(&promos[i])
	}
	return len(promos), nil
}

// ExpireElapsed retires promotions whose end has passed, clears their listing
// snapshots, and stops billing.
func (s *DefaultPromotionService) ExpireElapsed(ctx context.Context, now time.Time) (int, error) {
	promos, err := s.Repo.ExpireElapsed(now)
	if err != nil {
		return 0, err
	}
	for i := range promos {
		p := &promos[i]
		s.clearDeal(p)
		if err := s.Subscriptions.CancelSubscription(p.StripeSubscriptionID); err != nil {
			utils.GetLogger().Error("ExpireElapsed: stripe cancellation failed",
				zap.String("promotion", p.ID), zap.Error(err))
		}
	}
	return len(promos), nil
}

func (s *DefaultPromotionService) applyDeal(p *models.Promotion) {
	deal := &models.HotDealRef{
		PromotionID: p.ID,
		PercentOff:  p.PercentOff,
		EndsAt:      p.EndsAt,
	}
	if err := s.Listings.SetHotDeal(p.ListingID, deal); err != nil {
		utils.GetLogger().Error("failed to stamp hot deal onto listing",
			zap.String("listing", p.ListingID), zap.Error(err))
	}
}

func (s *DefaultPromotionService) clearDeal(p *models.Promotion) {
	listing, err := s.Listings.GetByID(p.ListingID)
	if err != nil || listing == nil {
		return
	}
	// Another promotion may already own the snapshot.
	if listing.HotDeal == nil || listing.HotDeal.PromotionID != p.ID {
		return
	}
	if err := s.Listings.SetHotDeal(p.ListingID, nil); err != nil {
		utils.GetLogger().Error("failed to clear hot deal from listing",
			zap.String("listing", p.ListingID), zap.Error(err))
	}
}
