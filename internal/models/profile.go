package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile 用户资料表（账号与角色）
type Profile struct {
	ID                 string     `gorm:"type:varchar(36);primaryKey" json:"id"`                     // UUID
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`       // 邮箱
	FullName           *string    `gorm:"type:varchar(120)" json:"full_name"`                        // 姓名
	Role               string     `gorm:"type:varchar(16);not null;default:'user';index" json:"role"` // admin / editor / user
	AvatarURL          *string    `gorm:"type:varchar(1000)" json:"avatar_url"`                      // 头像
	PasswordHash       string     `gorm:"not null" json:"-"`                                         // 密码哈希（不返回给前端）
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                               // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                                            // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time `json:"last_login_at"`                                             // 最后登录时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate 生成 UUID 主键
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RoleAuditLog 角色变更审计
type RoleAuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OperatorID string    `gorm:"type:varchar(36);index;not null" json:"operator_id"`
	TargetID   string    `gorm:"type:varchar(36);index;not null" json:"target_id"`
	FromRole   string    `gorm:"type:varchar(16)" json:"from_role"`
	ToRole     string    `gorm:"type:varchar(16);not null" json:"to_role"`
	RequestID  string    `gorm:"type:varchar(64)" json:"request_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (RoleAuditLog) TableName() string {
	return "role_audit_logs"
}
