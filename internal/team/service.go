package team

import (
	"context"

	"usinahub/usinahub-backend/pkg/apperrors"
	"usinahub/usinahub-backend/pkg/workflows"
)

var validLevels = map[string]bool{
	workflows.LevelColaborador: true,
	workflows.LevelLider:       true,
	workflows.LevelGerente:     true,
	workflows.LevelComprador:   true,
	workflows.LevelDiretor:     true,
	workflows.LevelFinanceiro:  true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type MemberInput struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	HierarchyLevel string `json:"hierarchy_level" binding:"required"`
	Sector         string `json:"sector"`
	Phone          string `json:"phone"`
	UserID         *uint  `json:"user_id"`
}

func (s *Service) Create(ctx context.Context, input MemberInput) (*Member, error) {
	if !validLevels[input.HierarchyLevel] {
		return nil, apperrors.Validation("nível hierárquico inválido")
	}
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("já existe um membro da equipe com este e-mail")
	}

	member := &Member{
		Name:           input.Name,
		Email:          input.Email,
		HierarchyLevel: input.HierarchyLevel,
		Sector:         input.Sector,
		Phone:          input.Phone,
		UserID:         input.UserID,
		Active:         true,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.NotFound("membro da equipe não encontrado")
	}
	return member, nil
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// FindByUser resolves the team member linked to an authenticated user,
// falling back to an email match when no explicit link exists.
func (s *Service) FindByUser(ctx context.Context, userID uint, email string) (*Member, error) {
	member, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return member, nil
	}
	return s.repo.GetByEmail(ctx, email)
}

// ListByLevel returns active members at the given hierarchy level.
func (s *Service) ListByLevel(ctx context.Context, level string) ([]Member, error) {
	return s.repo.ListByLevel(ctx, level)
}

func (s *Service) Update(ctx context.Context, id uint, input MemberInput) (*Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validLevels[input.HierarchyLevel] {
		return nil, apperrors.Validation("nível hierárquico inválido")
	}
	member.Name = input.Name
	member.Email = input.Email
	member.HierarchyLevel = input.HierarchyLevel
	member.Sector = input.Sector
	member.Phone = input.Phone
	member.UserID = input.UserID
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
