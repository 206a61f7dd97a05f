package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Identity   IdentityRepo
	User       UserRepo
	Ticket     TicketRepo
	Comment    CommentRepo
	Attachment AttachmentRepo
	Audit      AuditRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Identity:   NewIdentityRepo(db),
		User:       NewUserRepo(db),
		Ticket:     NewTicketRepo(db),
		Comment:    NewCommentRepo(db),
		Attachment: NewAttachmentRepo(db),
		Audit:      NewAuditRepo(db),
		db:         db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Identity:   r.Identity.WithTx(tx),
		User:       r.User.WithTx(tx),
		Ticket:     r.Ticket.WithTx(tx),
		Comment:    r.Comment.WithTx(tx),
		Attachment: r.Attachment.WithTx(tx),
		Audit:      r.Audit.WithTx(tx),
		db:         tx,
	}
}

// ExecTx runs fn against repositories bound to a single transaction.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
