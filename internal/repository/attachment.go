package repository

import (
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"gorm.io/gorm"
)

type AttachmentRepo interface {
	Create(a *ticket.Attachment) error
	ListByTicket(ticketID uint) ([]ticket.Attachment, error)
	WithTx(tx *gorm.DB) AttachmentRepo
}

type DBAttachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) *DBAttachmentRepo {
	return &DBAttachmentRepo{db: db}
}

func (r *DBAttachmentRepo) Create(a *ticket.Attachment) error {
	return r.db.Create(a).Error
}

func (r *DBAttachmentRepo) ListByTicket(ticketID uint) ([]ticket.Attachment, error) {
	var atts []ticket.Attachment
	err := r.db.Where("ticket_id = ?", ticketID).Order("created_at desc").Order("id desc").Find(&atts).Error
	return atts, err
}

func (r *DBAttachmentRepo) WithTx(tx *gorm.DB) AttachmentRepo {
	if tx == nil {
		return r
	}
	return &DBAttachmentRepo{db: tx}
}
