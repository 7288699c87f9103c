package models

import "time"

// Course 课程
type Course struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(300);not null" json:"title"`
	Slug         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	ThumbnailURL string         `gorm:"type:varchar(1000)" json:"thumbnail_url"`
	Status       string         `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	AuthorID     string         `gorm:"type:varchar(36);index" json:"author_id"`
	Modules      []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (Course) TableName() string {
	return "courses"
}

// CourseModule 课程章节
type CourseModule struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Title       string     `gorm:"type:varchar(300);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	SortOrder   int        `gorm:"default:0;index" json:"sort_order"`
	Videos      []Video    `gorm:"foreignKey:ModuleID" json:"videos,omitempty"`
	Materials   []Material `gorm:"foreignKey:ModuleID" json:"materials,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (CourseModule) TableName() string {
	return "course_modules"
}

// Video 章节视频
type Video struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	ModuleID        uint      `gorm:"not null;index" json:"module_id"`
	Title           string    `gorm:"type:varchar(300);not null" json:"title"`
	VideoURL        string    `gorm:"type:varchar(1000);not null" json:"video_url"`
	DurationSeconds int       `gorm:"default:0" json:"duration_seconds"`
	SortOrder       int       `gorm:"default:0;index" json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "course_videos"
}

// Material 章节资料
type Material struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ModuleID  uint      `gorm:"not null;index" json:"module_id"`
	Title     string    `gorm:"type:varchar(300);not null" json:"title"`
	FileURL   string    `gorm:"type:varchar(1000);not null" json:"file_url"`
	FileType  string    `gorm:"type:varchar(64)" json:"file_type"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Material) TableName() string {
	return "course_materials"
}
