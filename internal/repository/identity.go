package repository

import (
	"github.com/linskybing/csdesk/internal/domain/identity"
	"gorm.io/gorm"
)

type IdentityRepo interface {
	GetByEmail(email string) (identity.Identity, error)
	GetByID(id string) (identity.Identity, error)
	Create(ident *identity.Identity) error
	WithTx(tx *gorm.DB) IdentityRepo
}

type DBIdentityRepo struct {
	db *gorm.DB
}

func NewIdentityRepo(db *gorm.DB) *DBIdentityRepo {
	return &DBIdentityRepo{db: db}
}

func (r *DBIdentityRepo) GetByEmail(email string) (identity.Identity, error) {
	var ident identity.Identity
	err := r.db.Where("email = ?", email).First(&ident).Error
	return ident, err
}

func (r *DBIdentityRepo) GetByID(id string) (identity.Identity, error) {
	var ident identity.Identity
	err := r.db.Where("id = ?", id).First(&ident).Error
	return ident, err
}

func (r *DBIdentityRepo) Create(ident *identity.Identity) error {
	return r.db.Create(ident).Error
}

func (r *DBIdentityRepo) WithTx(tx *gorm.DB) IdentityRepo {
	if tx == nil {
		return r
	}
	return &DBIdentityRepo{db: tx}
}
