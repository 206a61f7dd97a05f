package repository

import (
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"gorm.io/gorm"
)

type CommentRepo interface {
	Create(c *ticket.Comment) error
	ListByTicket(ticketID uint) ([]ticket.Comment, error)
	WithTx(tx *gorm.DB) CommentRepo
}

type DBCommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *DBCommentRepo {
	return &DBCommentRepo{db: db}
}

func (r *DBCommentRepo) Create(c *ticket.Comment) error {
	return r.db.Omit("Author").Create(c).Error
}

func (r *DBCommentRepo) ListByTicket(ticketID uint) ([]ticket.Comment, error) {
	var comments []ticket.Comment
	err := r.db.Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at asc").Order("id asc").
		Find(&comments).Error
	return comments, err
}

func (r *DBCommentRepo) WithTx(tx *gorm.DB) CommentRepo {
	if tx == nil {
		return r
	}
	return &DBCommentRepo{db: tx}
}
