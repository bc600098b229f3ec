package quotes

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usinahub/usinahub-backend/internal/machines"
	"usinahub/usinahub-backend/internal/materials"
	"usinahub/usinahub-backend/internal/settings"
	"usinahub/usinahub-backend/pkg/apperrors"
)

var validStatuses = map[string]bool{
	StatusRascunho: true,
	StatusEnviado:  true,
	StatusAprovado: true,
	StatusRecusado: true,
}

type Service struct {
	db        *gorm.DB
	machines  *machines.Service
	materials *materials.Service
	settings  *settings.Service
	logger    *zap.Logger
}

func NewService(db *gorm.DB, machineSvc *machines.Service, materialSvc *materials.Service, settingsSvc *settings.Service, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		machines:  machineSvc,
		materials: materialSvc,
		settings:  settingsSvc,
		logger:    logger,
	}
}

type QuoteItemInput struct {
	Description      string `json:"description" binding:"required"`
	MachineID        *uint  `json:"machine_id"`
	MaterialID       *uint  `json:"material_id"`
	Quantity         int64  `json:"quantity"`
	WidthMm          int64  `json:"width_mm"`
	LengthMm         int64  `json:"length_mm"`
	MachiningMinutes int64  `json:"machining_minutes"`
	SetupMinutes     int64  `json:"setup_minutes"`
	ToolingCost      int64  `json:"tooling_cost"`
	ThirdPartyCost   int64  `json:"third_party_cost"`
}

type QuoteInput struct {
	ClientID        *uint            `json:"client_id"`
	ClientName      string           `json:"client_name" binding:"required"`
	ProfitMarginPct *float64         `json:"profit_margin_pct"`
	TaxRatePct      *float64         `json:"tax_rate_pct"`
	Notes           string           `json:"notes"`
	Items           []QuoteItemInput `json:"items"`
}

// buildItem resolves cost inputs for one item and computes its breakdown.
func (s *Service) buildItem(ctx context.Context, input QuoteItemInput, operatorRate int64) (*QuoteItem, error) {
	var machineRate int64
	if input.MachineID != nil {
		machine, err := s.machines.Get(ctx, *input.MachineID)
		if err != nil {
			return nil, err
		}
		machineRate = machines.HourlyCost(machine)
	}

	var rawCost int64
	if input.MaterialID != nil {
		material, err := s.materials.Get(ctx, *input.MaterialID)
		if err != nil {
			return nil, err
		}
		rawCost = RawMaterialCostFromArea(material.CostPerMm2, input.WidthMm, input.LengthMm)
	}

	result := ComputeItemCost(ItemCostInput{
		MachineHourlyCost:  machineRate,
		OperatorHourlyCost: operatorRate,
		MachiningMinutes:   input.MachiningMinutes,
		SetupMinutes:       input.SetupMinutes,
		RawMaterialCost:    rawCost,
		Quantity:           input.Quantity,
		ToolingCost:        input.ToolingCost,
		ThirdPartyCost:     input.ThirdPartyCost,
	})

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return &QuoteItem{
		Description:        input.Description,
		MachineID:          input.MachineID,
		MaterialID:         input.MaterialID,
		Quantity:           quantity,
		WidthMm:            input.WidthMm,
		LengthMm:           input.LengthMm,
		MachiningMinutes:   input.MachiningMinutes,
		SetupMinutes:       input.SetupMinutes,
		ToolingCost:        input.ToolingCost,
		ThirdPartyCost:     input.ThirdPartyCost,
		MachineHourlyCost:  machineRate,
		OperatorHourlyCost: operatorRate,
		TotalMachineCost:   result.TotalMachineCost,
		TotalLaborCost:     result.TotalLaborCost,
		RawMaterialCost:    result.RawMaterialCost,
		ItemSubtotal:       result.ItemSubtotal,
	}, nil
}

func (s *Service) Create(ctx context.Context, input QuoteInput) (*Quote, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	profitPct := cfg.DefaultProfitPct
	if input.ProfitMarginPct != nil {
		profitPct = *input.ProfitMarginPct
	}
	taxPct := cfg.DefaultTaxPct
	if input.TaxRatePct != nil {
		taxPct = *input.TaxRatePct
	}

	quote := &Quote{
		ClientID:        input.ClientID,
		ClientName:      input.ClientName,
		Status:          StatusRascunho,
		ProfitMarginPct: profitPct,
		TaxRatePct:      taxPct,
		Notes:           input.Notes,
	}

	subtotals := make([]int64, 0, len(input.Items))
	for _, itemInput := range input.Items {
		item, err := s.buildItem(ctx, itemInput, cfg.OperatorHourlyRate)
		if err != nil {
			return nil, err
		}
		quote.Items = append(quote.Items, *item)
		subtotals = append(subtotals, item.ItemSubtotal)
	}

	totals := ComputeQuoteTotals(subtotals, profitPct, taxPct)
	quote.Subtotal = totals.Subtotal
	quote.ProfitAmount = totals.ProfitAmount
	quote.TaxAmount = totals.TaxAmount
	quote.FinalPrice = totals.FinalPrice

	if err := s.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	s.logger.Info("quote created",
		zap.Uint("quote_id", quote.ID),
		zap.Int64("final_price", quote.FinalPrice),
	)
	return quote, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Quote, error) {
	var quote Quote
	err := s.db.WithContext(ctx).Preload("Items").First(&quote, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("orçamento não encontrado")
	}
	return &quote, err
}

func (s *Service) List(ctx context.Context) ([]Quote, error) {
	var list []Quote
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Update replaces the quote's fields and items and recomputes all totals.
func (s *Service) Update(ctx context.Context, id uint, input QuoteInput) (*Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.ProfitMarginPct != nil {
		quote.ProfitMarginPct = *input.ProfitMarginPct
	}
	if input.TaxRatePct != nil {
		quote.TaxRatePct = *input.TaxRatePct
	}
	quote.ClientID = input.ClientID
	quote.ClientName = input.ClientName
	quote.Notes = input.Notes

	newItems := make([]QuoteItem, 0, len(input.Items))
	subtotals := make([]int64, 0, len(input.Items))
	for _, itemInput := range input.Items {
		item, err := s.buildItem(ctx, itemInput, cfg.OperatorHourlyRate)
		if err != nil {
			return nil, err
		}
		item.QuoteID = quote.ID
		newItems = append(newItems, *item)
		subtotals = append(subtotals, item.ItemSubtotal)
	}

	totals := ComputeQuoteTotals(subtotals, quote.ProfitMarginPct, quote.TaxRatePct)
	quote.Subtotal = totals.Subtotal
	quote.ProfitAmount = totals.ProfitAmount
	quote.TaxAmount = totals.TaxAmount
	quote.FinalPrice = totals.FinalPrice

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&QuoteItem{}).Error; err != nil {
			return err
		}
		quote.Items = newItems
		return tx.Save(quote).Error
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *Service) SetStatus(ctx context.Context, id uint, status string) (*Quote, error) {
	if !validStatuses[status] {
		return nil, apperrors.Validation("status de orçamento inválido")
	}
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	quote.Status = status
	if err := s.db.WithContext(ctx).Model(quote).Update("status", status).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

// Duplicate creates a draft copy of a quote with all items.
func (s *Service) Duplicate(ctx context.Context, id uint) (*Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copyQuote := &Quote{
		ClientID:        quote.ClientID,
		ClientName:      quote.ClientName,
		Status:          StatusRascunho,
		ProfitMarginPct: quote.ProfitMarginPct,
		TaxRatePct:      quote.TaxRatePct,
		Subtotal:        quote.Subtotal,
		ProfitAmount:    quote.ProfitAmount,
		TaxAmount:       quote.TaxAmount,
		FinalPrice:      quote.FinalPrice,
		Notes:           quote.Notes,
	}
	for _, item := range quote.Items {
		dup := item
		dup.ID = 0
		dup.QuoteID = 0
		copyQuote.Items = append(copyQuote.Items, dup)
	}

	if err := s.db.WithContext(ctx).Create(copyQuote).Error; err != nil {
		return nil, err
	}
	return copyQuote, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Quote{}, id).Error
	})
}
