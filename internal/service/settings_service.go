package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

const bannerKey = "banner_message"

// DefaultBanner is shown until an admin sets a custom message.
const DefaultBanner = "Welcome to Erdnas Collections | Free Delivery For 2 or More Dresses | Shop Now For Affordable Prices"

type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) GetBanner(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, bannerKey)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return DefaultBanner, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SettingsService) SetBanner(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: banner message is required", ErrValidation)
	}
	if err := s.repo.UpsertSetting(ctx, bannerKey, message); err != nil {
		return "", err
	}
	return message, nil
}
