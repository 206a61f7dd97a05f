package maintenance

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditPurge_DeletesPastRetention(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	auditRepo.EXPECT().DeleteOlderThan(now.Add(-30*24*time.Hour)).Return(int64(3), nil)

	p := &AuditPurge{
		Audit:     application.NewAuditService(&repository.Repos{Audit: auditRepo}),
		Retention: 30 * 24 * time.Hour,
		now:       func() time.Time { return now },
	}
	n, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestAuditPurge_ZeroRetentionKeepsLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)

	p := &AuditPurge{Audit: application.NewAuditService(&repository.Repos{Audit: auditRepo})}
	n, err := p.Run()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuditPurge_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)
	auditRepo.EXPECT().DeleteOlderThan(gomock.Any()).Return(int64(0), errors.New("db down"))

	p := &AuditPurge{
		Audit:     application.NewAuditService(&repository.Repos{Audit: auditRepo}),
		Retention: time.Hour,
	}
	_, err := p.Run()
	assert.Error(t, err)
}
