package clients

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

type ClientInput struct {
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Notes    string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, input ClientInput) (*Client, error) {
	client := &Client{
		Name:     input.Name,
		Company:  input.Company,
		Email:    input.Email,
		Phone:    input.Phone,
		Document: input.Document,
		Notes:    input.Notes,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Client, error) {
	var client Client
	err := s.db.WithContext(ctx).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cliente não encontrado")
	}
	return &client, err
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	var list []Client
	err := s.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func (s *Service) Update(ctx context.Context, id uint, input ClientInput) (*Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	client.Name = input.Name
	client.Company = input.Company
	client.Email = input.Email
	client.Phone = input.Phone
	client.Document = input.Document
	client.Notes = input.Notes
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Client{}, id).Error
}
