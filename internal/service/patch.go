package service

import (
	"bytes"
	"encoding/json"
	"time"
)

var jsonNull = []byte("null")

// TimePatch 可区分 "未提供 / 显式置空 / 设置值" 的时间字段
type TimePatch struct {
	Present bool
	Time    *time.Time
}

// UnmarshalJSON 仅在字段出现在请求体时被调用
func (p *TimePatch) UnmarshalJSON(data []byte) error {
	p.Present = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		p.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	p.Time = &t
	return nil
}

// SetTime 构造设置值的补丁
func SetTime(t time.Time) TimePatch {
	return TimePatch{Present: true, Time: &t}
}

// ClearTime 构造置空的补丁
func ClearTime() TimePatch {
	return TimePatch{Present: true}
}

// NullableString 可区分 "未提供 / 显式置空 / 设置值" 的字符串字段
type NullableString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON 仅在字段出现在请求体时被调用
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// SetString 构造设置值的补丁
func SetString(s string) NullableString {
	return NullableString{Present: true, Value: &s}
}
