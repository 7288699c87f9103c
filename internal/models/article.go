package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article 新闻文章表
type Article struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`                       // UUID
	Title       string      `gorm:"type:varchar(300);not null" json:"title"`                     // 标题
	Content     string      `gorm:"type:text" json:"content"`                                    // HTML 正文
	Excerpt     string      `gorm:"type:varchar(600)" json:"excerpt"`                            // 摘要
	Slug        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`          // 唯一标识
	Categories  StringArray `gorm:"type:json" json:"categories"`                                 // 分类 slug 列表
	MediaURL    *string     `gorm:"type:varchar(1000)" json:"media_url"`                         // 封面媒体地址
	MediaType   *string     `gorm:"type:varchar(16)" json:"media_type"`                          // image / video
	Status      string      `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"` // draft / published / archived
	Featured    bool        `gorm:"not null;default:false;index" json:"featured"`                // 是否推荐
	AuthorID    string      `gorm:"type:varchar(36);index" json:"author_id"`                     // 作者 profile ID
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time   `json:"updated_at"`                                                  // 更新时间
	PublishedAt *time.Time  `gorm:"index" json:"published_at"`                                   // 发布时间，仅 published 状态非空
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// BeforeCreate 生成 UUID 主键
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
