// services/review/review.go
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "gatherly/database/repository/booking"
	listingRepo "gatherly/database/repository/listing"
	reviewRepo "gatherly/database/repository/review"
	"gatherly/models"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrBookingNotCompleted guards review eligibility: only finished stays
	// can be rated.
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")

	// ErrAlreadyReviewed enforces one review per booking.
	ErrAlreadyReviewed = errors.New("this booking has already been reviewed")
)

// ReviewService defines review operations.
type ReviewService interface {
	CreateReview(ctx context.Context, userID string, in models.ReviewCreateInput) (*models.Review, error)
	GetListingReviews(ctx context.Context, listingID string) ([]models.Review, error)
}

// DefaultReviewService is the production implementation of ReviewService.
type DefaultReviewService struct {
	Repo     reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Listings listingRepo.ListingRepository
}

func NewDefaultReviewService(repo reviewRepo.ReviewRepository, bookings bookingRepo.BookingRepository, listings listingRepo.ListingRepository) *DefaultReviewService {
	return &DefaultReviewService{Repo: repo, Bookings: bookings, Listings: listings}
}

// CreateReview stores a review for the caller's completed booking and
// refreshes the listing's denormalized rating aggregates.
func (s *DefaultReviewService) CreateReview(ctx context.Context, userID string, in models.ReviewCreateInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	booking, err := s.Bookings.GetByID(in.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, fmt.Errorf("booking %s not found", in.BookingID)
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	existing, err := s.Repo.GetByBookingID(in.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		ListingID: booking.ListingID,
		BookingID: booking.ID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Aggregates are display data; a failed refresh is recoverable on the
	// next review.
	avg, count, err := s.Repo.Aggregates(booking.ListingID)
	if err != nil {
		utils.GetLogger().Warn("CreateReview: aggregate recompute failed",
			zap.String("listing", booking.ListingID), zap.Error(err))
		return review, nil
	}
	if err := s.Listings.UpdateReviewAggregates(booking.ListingID, avg, count); err != nil {
		utils.GetLogger().Warn("CreateReview: aggregate write failed",
			zap.String("listing", booking.ListingID), zap.Error(err))
	}
	return review, nil
}

func (s *DefaultReviewService) GetListingReviews(ctx context.Context, listingID string) ([]models.Review, error) {
	return s.Repo.GetByListingID(listingID, 100)
}
