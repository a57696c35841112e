package service

import (
	"context"
	"strings"
	"sync"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SettingsService holds the shop settings used for pricing and receipts
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	tasks        *background.Tasks

	mu      sync.RWMutex
	current entity.ShopSettings
}

// NewSettingsService creates a new settings service, starting from the defaults
func NewSettingsService(settingsRepo repository.SettingsRepository, tasks *background.Tasks) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		tasks:        tasks,
		current:      entity.DefaultShopSettings(),
	}
}

// Load reads the stored settings. Defaults stay in place when none were saved.
func (s *SettingsService) Load(ctx context.Context) error {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	s.mu.Lock()
	s.current = *stored
	s.mu.Unlock()
	return nil
}

// Get returns the current settings
func (s *SettingsService) Get() entity.ShopSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and applies new settings, then saves them in the background
func (s *SettingsService) Update(settings entity.ShopSettings) (entity.ShopSettings, error) {
	settings.ShopName = strings.TrimSpace(settings.ShopName)
	settings.Currency = strings.TrimSpace(settings.Currency)

	var errs []apperror.FieldError
	if settings.ShopName == "" {
		errs = append(errs, apperror.FieldError{Field: "shop_name", Message: "Shop name is required"})
	}
	if settings.Currency == "" {
		errs = append(errs, apperror.FieldError{Field: "currency", Message: "Currency is required"})
	}
	if settings.TaxRate.IsNegative() || settings.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, apperror.FieldError{Field: "tax_rate", Message: "Tax rate must be between 0 and 100"})
	}
	if !settings.TaxType.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "tax_type", Message: "Tax type must be included or excluded"})
	}
	if settings.WhatsAppEnabled && strings.TrimSpace(settings.WhatsAppNumber) == "" {
		errs = append(errs, apperror.FieldError{Field: "whatsapp_number", Message: "WhatsApp number is required when summaries are enabled"})
	}
	if settings.Language == "" {
		settings.Language = "en"
	}
	if len(errs) > 0 {
		return entity.ShopSettings{}, apperror.NewValidationError(errs)
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	s.tasks.Go("settings", "save", nil, func(ctx context.Context) error {
		return s.settingsRepo.Save(ctx, settings)
	})
	return settings, nil
}
