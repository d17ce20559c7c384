package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

// DiscountInput carries the fields an admin submits for a new code.
type DiscountInput struct {
	Code        string              `json:"code"`
	Type        domain.DiscountType `json:"type"`
	Value       float64             `json:"value"`
	MinQuantity int                 `json:"minQuantity"`
	UsageLimit  *int                `json:"usageLimit"`
	ExpiresAt   *time.Time          `json:"expiresAt"`
}

type DiscountService struct {
	repo repository.DiscountRepository
}

func NewDiscountService(repo repository.DiscountRepository) *DiscountService {
	return &DiscountService{repo: repo}
}

// List returns every code, newest first.
func (s *DiscountService) List(ctx context.Context) ([]domain.DiscountCode, error) {
	return s.repo.ListDiscounts(ctx)
}

// Create stores a new code. Codes are case-insensitive: they are uppercased
// before storage and lookup. MinQuantity defaults to 1.
func (s *DiscountService) Create(ctx context.Context, input DiscountInput) (*domain.DiscountCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	if !domain.ValidDiscountType(input.Type) {
		return nil, fmt.Errorf("%w: unknown discount type %q", ErrValidation, input.Type)
	}
	if input.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be a positive number", ErrValidation)
	}

	minQuantity := input.MinQuantity
	if minQuantity < 1 {
		minQuantity = 1
	}

	discount := &domain.DiscountCode{
		Code:        code,
		Type:        input.Type,
		Value:       input.Value,
		MinQuantity: minQuantity,
		UsageLimit:  input.UsageLimit,
		IsActive:    true,
		ExpiresAt:   input.ExpiresAt,
	}
	err := s.repo.CreateDiscount(ctx, discount)
	if errors.Is(err, repository.ErrDiscountCodeExists) {
		return nil, fmt.Errorf("%w: discount code already exists", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	return discount, nil
}

// Validate checks a code a shopper typed at checkout. itemCount is the number
// of items in the cart; zero means unknown and skips the minimum-quantity
// check.
func (s *DiscountService) Validate(ctx context.Context, code string, itemCount int) (*domain.DiscountCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}

	discount, err := s.repo.GetDiscountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !discount.IsActive {
		return nil, fmt.Errorf("%w: discount code is inactive", ErrValidation)
	}
	if discount.ExpiresAt != nil && time.Now().After(*discount.ExpiresAt) {
		return nil, fmt.Errorf("%w: discount code has expired", ErrValidation)
	}
	if discount.UsageLimit != nil && discount.UsedCount >= *discount.UsageLimit {
		return nil, fmt.Errorf("%w: discount code usage limit exceeded", ErrValidation)
	}
	if itemCount > 0 && discount.MinQuantity > itemCount {
		return nil, fmt.Errorf("%w: this code requires a minimum of %d items", ErrValidation, discount.MinQuantity)
	}
	return discount, nil
}

func (s *DiscountService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteDiscount(ctx, id)
}

// Toggle flips the active flag and returns the updated code.
func (s *DiscountService) Toggle(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	return s.repo.ToggleDiscount(ctx, id)
}
