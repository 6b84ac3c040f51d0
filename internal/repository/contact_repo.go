package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.FamilyContact) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FamilyContact, error)
	ListByDeceased(ctx context.Context, deceasedID uuid.UUID) ([]model.FamilyContact, error)
	Update(ctx context.Context, contact *model.FamilyContact) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateMessage(ctx context.Context, msg *model.Message) error
	FindMessageByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	ListMessages(ctx context.Context, contactID uuid.UUID, page, limit int) ([]model.Message, int64, error)
	UpdateMessage(ctx context.Context, msg *model.Message) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.FamilyContact) error {
	return GetDB(ctx, r.db).Create(contact).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FamilyContact, error) {
	var contact model.FamilyContact
	if err := GetDB(ctx, r.db).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByDeceased(ctx context.Context, deceasedID uuid.UUID) ([]model.FamilyContact, error) {
	var contacts []model.FamilyContact
	if err := GetDB(ctx, r.db).
		Where("deceased_id = ?", deceasedID).
		Order("is_primary desc, full_name asc").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *model.FamilyContact) error {
	return GetDB(ctx, r.db).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FamilyContact{}).Error
}

func (r *contactRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

func (r *contactRepository) FindMessageByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	if err := GetDB(ctx, r.db).Preload("Contact").First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *contactRepository) ListMessages(ctx context.Context, contactID uuid.UUID, page, limit int) ([]model.Message, int64, error) {
	var msgs []model.Message
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Message{}).Where("contact_id = ?", contactID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&msgs).Error; err != nil {
		return nil, 0, err
	}

	return msgs, total, nil
}

func (r *contactRepository) UpdateMessage(ctx context.Context, msg *model.Message) error {
	return GetDB(ctx, r.db).Save(msg).Error
}
