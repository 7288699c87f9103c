package repository

import "time"

// ArticleListFilter 查询文章列表的过滤条件
type ArticleListFilter struct {
	Page          int
	PageSize      int
	Status        string
	Category      string
	Search        string
	AuthorID      string
	Featured      *bool
	OnlyPublished bool
	OrderBy       string
}

// ProfileListFilter 查询用户资料列表的过滤条件
type ProfileListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
}

// FactCheckListFilter 查询事实核查列表的过滤条件
type FactCheckListFilter struct {
	Page        int
	PageSize    int
	Status      string
	ArticleID   string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CourseListFilter 查询课程列表的过滤条件
type CourseListFilter struct {
	Page          int
	PageSize      int
	Status        string
	Search        string
	OnlyPublished bool
}
