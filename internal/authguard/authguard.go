// Package authguard 提供会话身份与角色判定，路由中间件与处理器共用同一判定规则。
package authguard

import (
	"errors"
	"strings"

	"github.com/ze-news/internal/constants"
)

var (
	// ErrNotAuthenticated 未登录或会话无效（401）
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInsufficientRole 已登录但角色不足（403）
	ErrInsufficientRole = errors.New("insufficient role")
)

// Identity 请求身份
type Identity struct {
	Authenticated bool
	ProfileID     string
	Email         string
	Role          string
}

// Anonymous 匿名身份
func Anonymous() Identity {
	return Identity{}
}

// IsPrivilegedRole admin 与 editor 为特权角色
func IsPrivilegedRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case constants.RoleAdmin, constants.RoleEditor:
		return true
	default:
		return false
	}
}

// IsValidRole 是否为已知角色
func IsValidRole(role string) bool {
	switch role {
	case constants.RoleAdmin, constants.RoleEditor, constants.RoleUser:
		return true
	default:
		return false
	}
}

// Require 要求特权角色
func Require(id Identity) error {
	if !id.Authenticated || id.ProfileID == "" {
		return ErrNotAuthenticated
	}
	if !IsPrivilegedRole(id.Role) {
		return ErrInsufficientRole
	}
	return nil
}

// RequireAuthenticated 仅要求已登录
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated || id.ProfileID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireRole 要求属于给定角色之一
func RequireRole(id Identity, roles ...string) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	for _, role := range roles {
		if strings.EqualFold(id.Role, role) {
			return nil
		}
	}
	return ErrInsufficientRole
}
