package constants

// 文章状态常量
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusArchived  = "archived"
)

// 媒体类型常量
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// 用户角色常量
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

// 课程状态常量
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// 事实核查状态常量
const (
	FactCheckStatusPending    = "pending"
	FactCheckStatusReviewing  = "reviewing"
	FactCheckStatusVerified   = "verified"
	FactCheckStatusFalse      = "false"
	FactCheckStatusMisleading = "misleading"
	FactCheckStatusRejected   = "rejected"
)

// 文章内容格式
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// 上传状态（上传流程状态机）
const (
	UploadStateIdle       = "idle"
	UploadStateValidating = "validating"
	UploadStateRejected   = "rejected"
	UploadStateUploading  = "uploading"
	UploadStateRetryWait  = "retry_wait"
	UploadStateSucceeded  = "succeeded"
	UploadStateFailed     = "failed"
)

// 对象存储驱动
const (
	StorageDriverLocal = "local"
	StorageDriverHTTP  = "http"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskFactCheckStatusEmail    = "fact_check:status_email"
	TaskFactCheckSourceSnapshot = "fact_check:source_snapshot"
)

// 默认分页
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	LatestLimit     = 10
	MaxLatestLimit  = 50
)
