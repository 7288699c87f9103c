package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// jsonArrayContains 构建 "JSON 字符串数组包含某值" 条件，兼容 sqlite 与 postgres
func jsonArrayContains(db *gorm.DB, column, value string) (string, interface{}) {
	return jsonArrayContainsByDialect(dbDialectName(db), column, value)
}

func jsonArrayContainsByDialect(dialect, column, value string) (string, interface{}) {
	if isPostgres(dialect) {
		encoded, _ := json.Marshal([]string{value})
		return fmt.Sprintf("(%s::jsonb @> ?::jsonb)", column), string(encoded)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column), value
}

// buildLikeCondition 构建多列 LIKE 条件，返回条件与参数列表
func buildLikeCondition(db *gorm.DB, keyword string, columns ...string) (string, []interface{}) {
	return buildLikeConditionByDialect(dbDialectName(db), keyword, columns...)
}

func buildLikeConditionByDialect(dialect, keyword string, columns ...string) (string, []interface{}) {
	operator := "LIKE"
	if isPostgres(dialect) {
		operator = "ILIKE"
	}
	like := "%" + keyword + "%"
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", column, operator))
		args = append(args, like)
	}
	return strings.Join(parts, " OR "), args
}
