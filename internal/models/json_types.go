package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 字符串数组类型，用于存储 tags 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	raw, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// AttributeSnapshot 订单项上的属性价格快照
type AttributeSnapshot struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Price Money  `json:"price"`
	Image string `json:"image,omitempty"`
}

// AttributeSnapshots 属性快照列表（JSON 存储）
type AttributeSnapshots []AttributeSnapshot

// Value 实现 driver.Valuer 接口
func (a AttributeSnapshots) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (a *AttributeSnapshots) Scan(value interface{}) error {
	raw, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*a = AttributeSnapshots{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

// scanJSONBytes 兼容不同驱动返回的 []byte / string
func scanJSONBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
