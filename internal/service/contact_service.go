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

type CreateContactRequest struct {
	DeceasedID   string `json:"deceased_id" binding:"required,uuid"`
	FullName     string `json:"full_name" binding:"required"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
	Address      string `json:"address"`
	IsPrimary    bool   `json:"is_primary"`
}

type UpdateContactRequest struct {
	FullName     *string `json:"full_name"`
	Relationship *string `json:"relationship"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Address      *string `json:"address"`
	IsPrimary    *bool   `json:"is_primary"`
}

type CreateMessageRequest struct {
	ContactID string `json:"contact_id" binding:"required,uuid"`
	Channel   string `json:"channel" binding:"required,oneof=SMS EMAIL CALL"`
	Subject   string `json:"subject"`
	Body      string `json:"body" binding:"required"`
}

type ContactResponse struct {
	ID           string `json:"id"`
	DeceasedID   string `json:"deceased_id"`
	FullName     string `json:"full_name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	IsPrimary    bool   `json:"is_primary"`
}

type MessageResponse struct {
	ID          string  `json:"id"`
	ContactID   string  `json:"contact_id"`
	ContactName string  `json:"contact_name,omitempty"`
	Channel     string  `json:"channel"`
	Subject     string  `json:"subject"`
	Body        string  `json:"body"`
	Status      string  `json:"status"`
	SentAt      *string `json:"sent_at"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

type ContactService interface {
	CreateContact(ctx context.Context, req CreateContactRequest) (ContactResponse, error)
	GetContact(ctx context.Context, id string) (ContactResponse, error)
	ListContactsByDeceased(ctx context.Context, deceasedID string) ([]ContactResponse, error)
	UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (ContactResponse, error)
	DeleteContact(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, userID string, req CreateMessageRequest) (MessageResponse, error)
	SendMessage(ctx context.Context, userID, id string) (MessageResponse, error)
	ListMessages(ctx context.Context, contactID string, page, limit int) ([]MessageResponse, int64, error)
}

type contactService struct {
	contactRepo  repository.ContactRepository
	deceasedRepo repository.DeceasedRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewContactService(
	contactRepo repository.ContactRepository,
	deceasedRepo repository.DeceasedRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ContactService {
	return &contactService{
		contactRepo:  contactRepo,
		deceasedRepo: deceasedRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Contacts ---

func (s *contactService) CreateContact(ctx context.Context, req CreateContactRequest) (ContactResponse, error) {
	deceasedID, err := uuid.Parse(req.DeceasedID)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("invalid deceased_id: %w", err)
	}
	if _, err := s.deceasedRepo.FindByID(ctx, deceasedID); err != nil {
		return ContactResponse{}, fmt.Errorf("deceased record not found: %w", err)
	}

	contact := model.FamilyContact{
		DeceasedID:   deceasedID,
		FullName:     req.FullName,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		IsPrimary:    req.IsPrimary,
	}

	if err := s.contactRepo.Create(ctx, &contact); err != nil {
		return ContactResponse{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return toContactResponse(contact), nil
}

func (s *contactService) GetContact(ctx context.Context, id string) (ContactResponse, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("invalid contact id: %w", err)
	}
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("contact not found: %w", err)
	}
	return toContactResponse(*contact), nil
}

func (s *contactService) ListContactsByDeceased(ctx context.Context, deceasedID string) ([]ContactResponse, error) {
	id, err := uuid.Parse(deceasedID)
	if err != nil {
		return nil, fmt.Errorf("invalid deceased id: %w", err)
	}

	contacts, err := s.contactRepo.ListByDeceased(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	result := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, toContactResponse(contact))
	}
	return result, nil
}

func (s *contactService) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (ContactResponse, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("invalid contact id: %w", err)
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("contact not found: %w", err)
	}

	if req.FullName != nil {
		contact.FullName = *req.FullName
	}
	if req.Relationship != nil {
		contact.Relationship = *req.Relationship
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if req.IsPrimary != nil {
		contact.IsPrimary = *req.IsPrimary
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return ContactResponse{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return toContactResponse(*contact), nil
}

func (s *contactService) DeleteContact(ctx context.Context, id string) error {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}
	return s.contactRepo.Delete(ctx, contactID)
}

// --- Messages ---

func (s *contactService) CreateMessage(ctx context.Context, userID string, req CreateMessageRequest) (MessageResponse, error) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("invalid contact_id: %w", err)
	}
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		return MessageResponse{}, fmt.Errorf("contact not found: %w", err)
	}

	msg := model.Message{
		ContactID: contactID,
		Channel:   req.Channel,
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    model.MessageStatusDraft,
	}
	if uid, err := uuid.Parse(userID); err == nil {
		msg.CreatedBy = &uid
	}

	if err := s.contactRepo.CreateMessage(ctx, &msg); err != nil {
		return MessageResponse{}, fmt.Errorf("failed to create message: %w", err)
	}
	return toMessageResponse(msg), nil
}

// SendMessage marks a draft as sent. Delivery itself is handled out of band
// (front desk places the call, mail relay picks up the row).
func (s *contactService) SendMessage(ctx context.Context, userID, id string) (MessageResponse, error) {
	msgID, err := uuid.Parse(id)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("invalid message id: %w", err)
	}

	var msg *model.Message
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		msg, err = s.contactRepo.FindMessageByID(txCtx, msgID)
		if err != nil {
			return fmt.Errorf("message not found: %w", err)
		}
		if msg.Status != model.MessageStatusDraft {
			return fmt.Errorf("message is %s, only drafts can be sent", msg.Status)
		}

		now := time.Now()
		msg.Status = model.MessageStatusSent
		msg.SentAt = &now
		if err := s.contactRepo.UpdateMessage(txCtx, msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionSendMessage, msg.ID.String(), msg.Channel,
			map[string]string{"contact_id": msg.ContactID.String(), "channel": msg.Channel})
		return nil
	})
	if err != nil {
		return MessageResponse{}, err
	}

	return toMessageResponse(*msg), nil
}

func (s *contactService) ListMessages(ctx context.Context, contactID string, page, limit int) ([]MessageResponse, int64, error) {
	id, err := uuid.Parse(contactID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid contact id: %w", err)
	}

	msgs, total, err := s.contactRepo.ListMessages(ctx, id, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, toMessageResponse(msg))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *contactService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
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

func toContactResponse(contact model.FamilyContact) ContactResponse {
	return ContactResponse{
		ID:           contact.ID.String(),
		DeceasedID:   contact.DeceasedID.String(),
		FullName:     contact.FullName,
		Relationship: contact.Relationship,
		Phone:        contact.Phone,
		Email:        contact.Email,
		Address:      contact.Address,
		IsPrimary:    contact.IsPrimary,
	}
}

func toMessageResponse(msg model.Message) MessageResponse {
	resp := MessageResponse{
		ID:        msg.ID.String(),
		ContactID: msg.ContactID.String(),
		Channel:   msg.Channel,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Status:    msg.Status,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
	if msg.Contact != nil {
		resp.ContactName = msg.Contact.FullName
	}
	if msg.SentAt != nil {
		t := msg.SentAt.Format(time.RFC3339)
		resp.SentAt = &t
	}
	return resp
}
