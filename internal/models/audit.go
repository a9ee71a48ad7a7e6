package models

import "time"

// Audit actions recorded for admin mutations
const (
	AuditCreate     = "create"
	AuditUpdate     = "update"
	AuditDeactivate = "deactivate"
	AuditStatus     = "status"
)

// AuditLog records an admin mutation with before and after snapshots
type AuditLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminUserID  uint      `gorm:"not null;index" json:"admin_user_id"`
	Action       string    `gorm:"size:50;not null" json:"action"`
	ResourceType string    `gorm:"size:50;not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   uint      `gorm:"not null;index:idx_audit_resource" json:"resource_id"`
	Before       JSON      `json:"before"`
	After        JSON      `json:"after"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
