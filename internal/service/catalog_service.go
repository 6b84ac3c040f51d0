package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required,oneof=ONE_TIME DAILY"`
	BasePrice   string `json:"base_price" binding:"required"`
	DailyRate   string `json:"daily_rate"` // required for DAILY services
}

type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	BasePrice   *string `json:"base_price"`
	DailyRate   *string `json:"daily_rate"`
	IsActive    *bool   `json:"is_active"`
}

type ServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	BasePrice   string `json:"base_price"`
	DailyRate   string `json:"daily_rate"`
	IsActive    bool   `json:"is_active"`
}

// --- Interface ---

type CatalogService interface {
	CreateService(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error)
	GetService(ctx context.Context, id string) (ServiceResponse, error)
	ListServices(ctx context.Context, activeOnly bool, page, limit int) ([]ServiceResponse, int64, error)
	UpdateService(ctx context.Context, id string, req UpdateServiceRequest) (ServiceResponse, error)
	DeleteService(ctx context.Context, id string) error
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

// --- Implementation ---

func (s *catalogService) CreateService(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error) {
	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("invalid base_price: %w", err)
	}
	if basePrice.IsNegative() {
		return ServiceResponse{}, fmt.Errorf("base_price must not be negative")
	}

	dailyRate := decimal.Zero
	if req.DailyRate != "" {
		dailyRate, err = decimal.NewFromString(req.DailyRate)
		if err != nil {
			return ServiceResponse{}, fmt.Errorf("invalid daily_rate: %w", err)
		}
		if dailyRate.IsNegative() {
			return ServiceResponse{}, fmt.Errorf("daily_rate must not be negative")
		}
	}
	if req.Type == pricing.ServiceTypeDaily && dailyRate.IsZero() {
		return ServiceResponse{}, fmt.Errorf("daily services require a daily_rate")
	}

	svc := model.MortuaryService{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		BasePrice:   basePrice,
		DailyRate:   dailyRate,
		IsActive:    true,
	}

	if err := s.catalogRepo.Create(ctx, &svc); err != nil {
		return ServiceResponse{}, fmt.Errorf("failed to create service: %w", err)
	}

	return toServiceResponse(svc), nil
}

func (s *catalogService) GetService(ctx context.Context, id string) (ServiceResponse, error) {
	svcID, err := uuid.Parse(id)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("invalid service id: %w", err)
	}

	svc, err := s.catalogRepo.FindByID(ctx, svcID)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("service not found: %w", err)
	}

	return toServiceResponse(*svc), nil
}

func (s *catalogService) ListServices(ctx context.Context, activeOnly bool, page, limit int) ([]ServiceResponse, int64, error) {
	services, total, err := s.catalogRepo.List(ctx, activeOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch services: %w", err)
	}

	result := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, toServiceResponse(svc))
	}
	return result, total, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id string, req UpdateServiceRequest) (ServiceResponse, error) {
	svcID, err := uuid.Parse(id)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("invalid service id: %w", err)
	}

	svc, err := s.catalogRepo.FindByID(ctx, svcID)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("service not found: %w", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.BasePrice != nil {
		basePrice, err := decimal.NewFromString(*req.BasePrice)
		if err != nil {
			return ServiceResponse{}, fmt.Errorf("invalid base_price: %w", err)
		}
		svc.BasePrice = basePrice
	}
	if req.DailyRate != nil {
		dailyRate, err := decimal.NewFromString(*req.DailyRate)
		if err != nil {
			return ServiceResponse{}, fmt.Errorf("invalid daily_rate: %w", err)
		}
		svc.DailyRate = dailyRate
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.catalogRepo.Update(ctx, svc); err != nil {
		return ServiceResponse{}, fmt.Errorf("failed to update service: %w", err)
	}

	return toServiceResponse(*svc), nil
}

func (s *catalogService) DeleteService(ctx context.Context, id string) error {
	svcID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid service id: %w", err)
	}
	return s.catalogRepo.Delete(ctx, svcID)
}

// --- Mapping ---

func toServiceResponse(svc model.MortuaryService) ServiceResponse {
	return ServiceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		Type:        svc.Type,
		BasePrice:   svc.BasePrice.StringFixed(4),
		DailyRate:   svc.DailyRate.StringFixed(4),
		IsActive:    svc.IsActive,
	}
}
