package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCaseRequest struct {
	DeceasedID  string  `json:"deceased_id" binding:"required,uuid"`
	EmbalmerID  *string `json:"embalmer_id" binding:"omitempty,uuid"`
	ScheduledAt *string `json:"scheduled_at"` // RFC3339
	Notes       string  `json:"notes"`
}

type UpdateCaseRequest struct {
	EmbalmerID  *string `json:"embalmer_id" binding:"omitempty,uuid"`
	ScheduledAt *string `json:"scheduled_at"`
	Status      *string `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Notes       *string `json:"notes"`
}

type CaseResponse struct {
	ID           string  `json:"id"`
	CaseNo       string  `json:"case_no"`
	DeceasedID   string  `json:"deceased_id"`
	DeceasedName string  `json:"deceased_name,omitempty"`
	EmbalmerID   *string `json:"embalmer_id"`
	EmbalmerName string  `json:"embalmer_name,omitempty"`
	ScheduledAt  *string `json:"scheduled_at"`
	CompletedAt  *string `json:"completed_at"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	CreatedAt    string  `json:"created_at"`
}

type CaseFilter struct {
	Status     string
	EmbalmerID string
	Page       int
	Limit      int
}

// --- Interface ---

type CaseService interface {
	CreateCase(ctx context.Context, userID string, req CreateCaseRequest) (CaseResponse, error)
	GetCase(ctx context.Context, id string) (CaseResponse, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]CaseResponse, int64, error)
	UpdateCase(ctx context.Context, userID, id string, req UpdateCaseRequest) (CaseResponse, error)
}

type caseService struct {
	caseRepo     repository.CaseRepository
	deceasedRepo repository.DeceasedRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCaseService(
	caseRepo repository.CaseRepository,
	deceasedRepo repository.DeceasedRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CaseService {
	return &caseService{
		caseRepo:     caseRepo,
		deceasedRepo: deceasedRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *caseService) CreateCase(ctx context.Context, userID string, req CreateCaseRequest) (CaseResponse, error) {
	deceasedID, err := uuid.Parse(req.DeceasedID)
	if err != nil {
		return CaseResponse{}, fmt.Errorf("invalid deceased_id: %w", err)
	}

	if _, err := s.deceasedRepo.FindByID(ctx, deceasedID); err != nil {
		return CaseResponse{}, fmt.Errorf("deceased record not found: %w", err)
	}

	c := model.EmbalmingCase{
		DeceasedID: deceasedID,
		Status:     model.CaseStatusPending,
		Notes:      req.Notes,
	}

	if req.EmbalmerID != nil && *req.EmbalmerID != "" {
		embalmerID, err := uuid.Parse(*req.EmbalmerID)
		if err != nil {
			return CaseResponse{}, fmt.Errorf("invalid embalmer_id: %w", err)
		}
		if _, err := s.employeeRepo.FindByID(ctx, embalmerID); err != nil {
			return CaseResponse{}, fmt.Errorf("embalmer not found: %w", err)
		}
		c.EmbalmerID = &embalmerID
	}

	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return CaseResponse{}, fmt.Errorf("invalid scheduled_at: %w", err)
		}
		c.ScheduledAt = &scheduled
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		caseNo, err := s.generateCaseNo(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate case number: %w", err)
		}
		c.CaseNo = caseNo
		if err := s.caseRepo.Create(txCtx, &c); err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
		s.logAudit(txCtx, userID, model.ActionCreateCase, c.ID.String(), c.CaseNo, req)
		return nil
	})
	if err != nil {
		return CaseResponse{}, err
	}

	return s.reload(ctx, c.ID)
}

func (s *caseService) GetCase(ctx context.Context, id string) (CaseResponse, error) {
	caseID, err := uuid.Parse(id)
	if err != nil {
		return CaseResponse{}, fmt.Errorf("invalid case id: %w", err)
	}
	return s.reload(ctx, caseID)
}

func (s *caseService) ListCases(ctx context.Context, filter CaseFilter) ([]CaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	cases, total, err := s.caseRepo.List(ctx, repository.CaseListFilter{
		Status:     filter.Status,
		EmbalmerID: filter.EmbalmerID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cases: %w", err)
	}

	result := make([]CaseResponse, 0, len(cases))
	for _, c := range cases {
		result = append(result, toCaseResponse(c))
	}
	return result, total, nil
}

// UpdateCase moves a case forward. Completing a case stamps CompletedAt; a
// completed case is frozen.
func (s *caseService) UpdateCase(ctx context.Context, userID, id string, req UpdateCaseRequest) (CaseResponse, error) {
	caseID, err := uuid.Parse(id)
	if err != nil {
		return CaseResponse{}, fmt.Errorf("invalid case id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.caseRepo.FindByID(txCtx, caseID)
		if err != nil {
			return fmt.Errorf("case not found: %w", err)
		}
		if c.Status == model.CaseStatusCompleted {
			return fmt.Errorf("case %s is completed and cannot be changed", c.CaseNo)
		}

		if req.EmbalmerID != nil {
			if *req.EmbalmerID == "" {
				c.EmbalmerID = nil
			} else {
				embalmerID, err := uuid.Parse(*req.EmbalmerID)
				if err != nil {
					return fmt.Errorf("invalid embalmer_id: %w", err)
				}
				if _, err := s.employeeRepo.FindByID(txCtx, embalmerID); err != nil {
					return fmt.Errorf("embalmer not found: %w", err)
				}
				c.EmbalmerID = &embalmerID
			}
		}
		if req.ScheduledAt != nil {
			scheduled, err := time.Parse(time.RFC3339, *req.ScheduledAt)
			if err != nil {
				return fmt.Errorf("invalid scheduled_at: %w", err)
			}
			c.ScheduledAt = &scheduled
		}
		if req.Notes != nil {
			c.Notes = *req.Notes
		}

		action := model.ActionUpdateCaseStatus
		if req.Status != nil && *req.Status != c.Status {
			c.Status = *req.Status
			if c.Status == model.CaseStatusCompleted {
				now := time.Now()
				c.CompletedAt = &now
			}
		}

		if err := s.caseRepo.Update(txCtx, c); err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}

		s.logAudit(txCtx, userID, action, c.ID.String(), c.CaseNo, req)
		return nil
	})
	if err != nil {
		return CaseResponse{}, err
	}

	return s.reload(ctx, caseID)
}

// --- Helpers ---

func (s *caseService) generateCaseNo(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("EMB-%s-", time.Now().Format("20060102"))
	count, err := s.caseRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *caseService) reload(ctx context.Context, id uuid.UUID) (CaseResponse, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return CaseResponse{}, fmt.Errorf("failed to reload case: %w", err)
	}
	return toCaseResponse(*c), nil
}

func (s *caseService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(payload)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	})
}

// --- Mapping ---

func toCaseResponse(c model.EmbalmingCase) CaseResponse {
	resp := CaseResponse{
		ID:         c.ID.String(),
		CaseNo:     c.CaseNo,
		DeceasedID: c.DeceasedID.String(),
		Status:     c.Status,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
	if c.Deceased != nil {
		resp.DeceasedName = c.Deceased.FullName
	}
	if c.EmbalmerID != nil {
		id := c.EmbalmerID.String()
		resp.EmbalmerID = &id
	}
	if c.Embalmer != nil {
		resp.EmbalmerName = c.Embalmer.FullName
	}
	if c.ScheduledAt != nil {
		t := c.ScheduledAt.Format(time.RFC3339)
		resp.ScheduledAt = &t
	}
	if c.CompletedAt != nil {
		t := c.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &t
	}
	return resp
}
