package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FactCheck 事实核查申请
type FactCheck struct {
	ID             string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ArticleID      *string    `gorm:"type:varchar(36);index" json:"article_id"`                      // 关联文章（可选）
	Claim          string     `gorm:"type:text;not null" json:"claim"`                               // 待核查的说法
	SourceURL      *string    `gorm:"type:varchar(1000)" json:"source_url"`                          // 来源链接
	SubmitterName  string     `gorm:"type:varchar(120)" json:"submitter_name"`                       // 提交人
	SubmitterEmail string     `gorm:"type:varchar(255);index" json:"submitter_email"`                // 提交人邮箱
	Status         string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"` // 核查状态
	VerdictNote    string     `gorm:"type:text" json:"verdict_note"`                                 // 结论说明
	ReviewerID     *string    `gorm:"type:varchar(36);index" json:"reviewer_id"`                     // 审核人
	ReviewedAt     *time.Time `json:"reviewed_at"`                                                   // 给出结论的时间
	SourceTitle    *string    `gorm:"type:varchar(500)" json:"source_title"`                         // 来源快照标题
	SourceExcerpt  *string    `gorm:"type:text" json:"source_excerpt"`                               // 来源快照正文摘录
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (FactCheck) TableName() string {
	return "fact_checks"
}

// BeforeCreate 生成 UUID 主键
func (f *FactCheck) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
