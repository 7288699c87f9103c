package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一索引冲突（slug、邮箱）
var ErrDuplicateKey = errors.New("duplicate key")

// translateWriteError 需以 TranslateError 打开连接，方言错误才会转为 gorm.ErrDuplicatedKey
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}
