package store

import (
	"context"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"gorm.io/gorm"
)

// AuditRepository records admin mutations
type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type gormAudit struct {
	db *gorm.DB
}

func (r *gormAudit) Record(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "Audit log")
}

func (r *gormAudit) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	entries := []models.AuditLog{}
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, translate(err, "Audit log")
	}
	return entries, nil
}
