package settings

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the workshop settings, creating the defaults row on first use.
func (s *Service) Get(ctx context.Context) (*WorkshopSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &WorkshopSettings{
			DefaultProfitPct: 20,
			DefaultTaxPct:    10,
			Currency:         "BRL",
		}
		if err := s.repo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

type SettingsInput struct {
	OperatorHourlyRate int64   `json:"operator_hourly_rate"`
	DefaultProfitPct   float64 `json:"default_profit_pct"`
	DefaultTaxPct      float64 `json:"default_tax_pct"`
	Currency           string  `json:"currency"`
	WorkshopName       string  `json:"workshop_name"`
}

func (s *Service) Update(ctx context.Context, input SettingsInput) (*WorkshopSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.OperatorHourlyRate = input.OperatorHourlyRate
	settings.DefaultProfitPct = input.DefaultProfitPct
	settings.DefaultTaxPct = input.DefaultTaxPct
	if input.Currency != "" {
		settings.Currency = input.Currency
	}
	settings.WorkshopName = input.WorkshopName
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
