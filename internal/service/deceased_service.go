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

type CreateDeceasedRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Gender       string  `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"` // YYYY-MM-DD
	DateOfDeath  string  `json:"date_of_death" binding:"required"`
	CauseOfDeath string  `json:"cause_of_death"`
	ReceivedAt   *string `json:"received_at"` // RFC3339; defaults to now
	StorageUnit  string  `json:"storage_unit"`
	Notes        string  `json:"notes"`
}

type UpdateDeceasedRequest struct {
	FullName     *string `json:"full_name"`
	Gender       *string `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"`
	CauseOfDeath *string `json:"cause_of_death"`
	ReceivedAt   *string `json:"received_at"`
	StorageUnit  *string `json:"storage_unit"`
	Notes        *string `json:"notes"`
}

type ReleaseBodyRequest struct {
	ReleasedAt *string `json:"released_at"` // RFC3339; defaults to now
}

type DeceasedResponse struct {
	ID           string  `json:"id"`
	TagNumber    string  `json:"tag_number"`
	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"`
	DateOfDeath  string  `json:"date_of_death"`
	CauseOfDeath string  `json:"cause_of_death"`
	ReceivedAt   *string `json:"received_at"`
	ReleasedAt   *string `json:"released_at"`
	StorageUnit  string  `json:"storage_unit"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	CreatedAt    string  `json:"created_at"`
}

type DeceasedFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// --- Interface ---

type DeceasedService interface {
	CreateRecord(ctx context.Context, userID string, req CreateDeceasedRequest) (DeceasedResponse, error)
	GetRecord(ctx context.Context, id string) (DeceasedResponse, error)
	ListRecords(ctx context.Context, filter DeceasedFilter) ([]DeceasedResponse, int64, error)
	UpdateRecord(ctx context.Context, userID, id string, req UpdateDeceasedRequest) (DeceasedResponse, error)
	ReleaseBody(ctx context.Context, userID, id string, req ReleaseBodyRequest) (DeceasedResponse, error)
	DeleteRecord(ctx context.Context, id string) error
}

type deceasedService struct {
	deceasedRepo repository.DeceasedRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewDeceasedService(
	deceasedRepo repository.DeceasedRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) DeceasedService {
	return &deceasedService{
		deceasedRepo: deceasedRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *deceasedService) CreateRecord(ctx context.Context, userID string, req CreateDeceasedRequest) (DeceasedResponse, error) {
	dateOfDeath, err := time.Parse("2006-01-02", req.DateOfDeath)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("invalid date_of_death: %w", err)
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return DeceasedResponse{}, fmt.Errorf("invalid date_of_birth: %w", err)
		}
		dateOfBirth = &parsed
	}

	receivedAt := time.Now()
	if req.ReceivedAt != nil && *req.ReceivedAt != "" {
		receivedAt, err = time.Parse(time.RFC3339, *req.ReceivedAt)
		if err != nil {
			return DeceasedResponse{}, fmt.Errorf("invalid received_at: %w", err)
		}
	}

	record := model.DeceasedRecord{
		FullName:     req.FullName,
		Gender:       req.Gender,
		DateOfBirth:  dateOfBirth,
		DateOfDeath:  dateOfDeath,
		CauseOfDeath: req.CauseOfDeath,
		ReceivedAt:   &receivedAt,
		StorageUnit:  req.StorageUnit,
		Status:       model.DeceasedStatusInStorage,
		Notes:        req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tag, err := s.generateTagNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate tag number: %w", err)
		}
		record.TagNumber = tag
		if err := s.deceasedRepo.Create(txCtx, &record); err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
		s.logAudit(txCtx, userID, model.ActionCreateDeceased, record.ID.String(), record.TagNumber, req)
		return nil
	})
	if err != nil {
		return DeceasedResponse{}, err
	}

	return toDeceasedResponse(record), nil
}

func (s *deceasedService) GetRecord(ctx context.Context, id string) (DeceasedResponse, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	record, err := s.deceasedRepo.FindByID(ctx, recordID)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("record not found: %w", err)
	}
	return toDeceasedResponse(*record), nil
}

func (s *deceasedService) ListRecords(ctx context.Context, filter DeceasedFilter) ([]DeceasedResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := s.deceasedRepo.List(ctx, repository.DeceasedListFilter{
		Status: filter.Status,
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch records: %w", err)
	}

	result := make([]DeceasedResponse, 0, len(records))
	for _, record := range records {
		result = append(result, toDeceasedResponse(record))
	}
	return result, total, nil
}

func (s *deceasedService) UpdateRecord(ctx context.Context, userID, id string, req UpdateDeceasedRequest) (DeceasedResponse, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	record, err := s.deceasedRepo.FindByID(ctx, recordID)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("record not found: %w", err)
	}

	if req.FullName != nil {
		record.FullName = *req.FullName
	}
	if req.Gender != nil {
		record.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return DeceasedResponse{}, fmt.Errorf("invalid date_of_birth: %w", err)
		}
		record.DateOfBirth = &parsed
	}
	if req.CauseOfDeath != nil {
		record.CauseOfDeath = *req.CauseOfDeath
	}
	if req.ReceivedAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ReceivedAt)
		if err != nil {
			return DeceasedResponse{}, fmt.Errorf("invalid received_at: %w", err)
		}
		record.ReceivedAt = &parsed
	}
	if req.StorageUnit != nil {
		record.StorageUnit = *req.StorageUnit
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.deceasedRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		s.logAudit(txCtx, userID, model.ActionUpdateDeceased, record.ID.String(), record.TagNumber, req)
		return nil
	})
	if err != nil {
		return DeceasedResponse{}, err
	}

	return toDeceasedResponse(*record), nil
}

// ReleaseBody closes the stay window. The release time may not precede the
// receive time; invoices issued afterwards charge the full clamped stay.
func (s *deceasedService) ReleaseBody(ctx context.Context, userID, id string, req ReleaseBodyRequest) (DeceasedResponse, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return DeceasedResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	releasedAt := time.Now()
	if req.ReleasedAt != nil && *req.ReleasedAt != "" {
		releasedAt, err = time.Parse(time.RFC3339, *req.ReleasedAt)
		if err != nil {
			return DeceasedResponse{}, fmt.Errorf("invalid released_at: %w", err)
		}
	}

	var record *model.DeceasedRecord
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		record, err = s.deceasedRepo.FindByID(txCtx, recordID)
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		if record.Status == model.DeceasedStatusReleased {
			return fmt.Errorf("record %s is already released", record.TagNumber)
		}
		if record.ReceivedAt != nil && releasedAt.Before(*record.ReceivedAt) {
			return fmt.Errorf("released_at must not precede received_at")
		}

		record.ReleasedAt = &releasedAt
		record.Status = model.DeceasedStatusReleased
		if err := s.deceasedRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to release record: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionReleaseBody, record.ID.String(), record.TagNumber,
			map[string]string{"released_at": releasedAt.Format(time.RFC3339)})
		return nil
	})
	if err != nil {
		return DeceasedResponse{}, err
	}

	return toDeceasedResponse(*record), nil
}

func (s *deceasedService) DeleteRecord(ctx context.Context, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid record id: %w", err)
	}
	return s.deceasedRepo.Delete(ctx, recordID)
}

// --- Helpers ---

func (s *deceasedService) generateTagNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("MRT-%s-", time.Now().Format("20060102"))
	count, err := s.deceasedRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *deceasedService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
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

func toDeceasedResponse(record model.DeceasedRecord) DeceasedResponse {
	resp := DeceasedResponse{
		ID:           record.ID.String(),
		TagNumber:    record.TagNumber,
		FullName:     record.FullName,
		Gender:       record.Gender,
		DateOfDeath:  record.DateOfDeath.Format("2006-01-02"),
		CauseOfDeath: record.CauseOfDeath,
		StorageUnit:  record.StorageUnit,
		Status:       record.Status,
		Notes:        record.Notes,
		CreatedAt:    record.CreatedAt.Format(time.RFC3339),
	}
	if record.DateOfBirth != nil {
		d := record.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &d
	}
	if record.ReceivedAt != nil {
		t := record.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &t
	}
	if record.ReleasedAt != nil {
		t := record.ReleasedAt.Format(time.RFC3339)
		resp.ReleasedAt = &t
	}
	return resp
}
