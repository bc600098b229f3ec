package machines

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"usinahub/usinahub-backend/pkg/apperrors"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type MachineInput struct {
	Name               string `json:"name" binding:"required"`
	Type               string `json:"type"`
	PurchasePrice      int64  `json:"purchase_price"`
	UsefulLifeHours    int64  `json:"useful_life_hours"`
	WorkingHoursYear   int64  `json:"working_hours_year"`
	AnnualRent         int64  `json:"annual_rent"`
	AnnualElectricity  int64  `json:"annual_electricity"`
	AnnualMaintenance  int64  `json:"annual_maintenance"`
	AnnualConsumables  int64  `json:"annual_consumables"`
	HourlyRateOverride *int64 `json:"hourly_rate_override"`
}

// MachineWithCost augments a machine with its effective hourly cost.
type MachineWithCost struct {
	Machine
	HourlyCost int64 `json:"hourly_cost"`
}

func (s *Service) Create(ctx context.Context, input MachineInput) (*Machine, error) {
	machine := &Machine{
		Name:               input.Name,
		Type:               input.Type,
		PurchasePrice:      input.PurchasePrice,
		UsefulLifeHours:    input.UsefulLifeHours,
		WorkingHoursYear:   input.WorkingHoursYear,
		AnnualRent:         input.AnnualRent,
		AnnualElectricity:  input.AnnualElectricity,
		AnnualMaintenance:  input.AnnualMaintenance,
		AnnualConsumables:  input.AnnualConsumables,
		HourlyRateOverride: input.HourlyRateOverride,
	}
	if err := s.db.WithContext(ctx).Create(machine).Error; err != nil {
		return nil, err
	}
	return machine, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Machine, error) {
	var machine Machine
	err := s.db.WithContext(ctx).First(&machine, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("máquina não encontrada")
	}
	return &machine, err
}

func (s *Service) List(ctx context.Context) ([]MachineWithCost, error) {
	var list []Machine
	if err := s.db.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]MachineWithCost, 0, len(list))
	for i := range list {
		out = append(out, MachineWithCost{Machine: list[i], HourlyCost: HourlyCost(&list[i])})
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id uint, input MachineInput) (*Machine, error) {
	machine, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	machine.Name = input.Name
	machine.Type = input.Type
	machine.PurchasePrice = input.PurchasePrice
	machine.UsefulLifeHours = input.UsefulLifeHours
	machine.WorkingHoursYear = input.WorkingHoursYear
	machine.AnnualRent = input.AnnualRent
	machine.AnnualElectricity = input.AnnualElectricity
	machine.AnnualMaintenance = input.AnnualMaintenance
	machine.AnnualConsumables = input.AnnualConsumables
	machine.HourlyRateOverride = input.HourlyRateOverride
	if err := s.db.WithContext(ctx).Save(machine).Error; err != nil {
		return nil, err
	}
	return machine, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Machine{}, id).Error
}
