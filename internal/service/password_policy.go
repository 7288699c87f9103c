package service

import (
	"unicode"

	"github.com/ze-news/internal/config"
)

// passwordPolicyError 命中的密码规则，Key 为 i18n 文案键
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return ErrWeakPassword.Error() + " (" + e.key + ")"
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword || target == ErrValidation
}

func (e passwordPolicyError) Key() string { return e.key }

func (e passwordPolicyError) Args() []interface{} { return e.args }

// charClass 字符类别位
type charClass uint8

const (
	classUpper charClass = 1 << iota
	classLower
	classDigit
	classOther
)

func classify(password string) (classes charClass, runes int) {
	for _, r := range password {
		runes++
		switch {
		case unicode.IsUpper(r):
			classes |= classUpper
		case unicode.IsLower(r):
			classes |= classLower
		case unicode.IsDigit(r):
			classes |= classDigit
		default:
			classes |= classOther
		}
	}
	return classes, runes
}

// 按顺序检查，返回第一条未满足的规则
var passwordClassRules = []struct {
	enabled func(config.PasswordPolicyConfig) bool
	class   charClass
	key     string
}{
	{func(p config.PasswordPolicyConfig) bool { return p.RequireUpper }, classUpper, "error.password_require_upper"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireLower }, classLower, "error.password_require_lower"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireNumber }, classDigit, "error.password_require_number"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireSpecial }, classOther, "error.password_require_special"},
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	classes, runes := classify(password)
	if policy.MinLength > 0 && runes < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}
	for _, rule := range passwordClassRules {
		if rule.enabled(policy) && classes&rule.class == 0 {
			return passwordPolicyError{key: rule.key}
		}
	}
	return nil
}
