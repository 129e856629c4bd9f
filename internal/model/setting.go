package model

import (
	"strconv"
	"strings"
	"time"
)

type SettingType string

const (
	SettingTypeString SettingType = "string"
	SettingTypeInt    SettingType = "int"
	SettingTypeBool   SettingType = "bool"
	SettingTypeFloat  SettingType = "float"
)

type Setting struct {
	Key       string      `json:"key"        gorm:"primaryKey;column:key"`
	Value     string      `json:"value"      gorm:"column:value;not null"`
	ValueType SettingType `json:"value_type" gorm:"column:value_type;not null;default:'string'"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }

type SettingSetRequest struct {
	Key       string
	Value     string
	ValueType SettingType
}

func (p SettingSetRequest) Validate() error {
	if strings.TrimSpace(p.Key) == "" {
		return invalid("key is required")
	}
	switch p.ValueType {
	case SettingTypeString:
	case SettingTypeInt:
		if _, err := strconv.ParseInt(p.Value, 10, 64); err != nil {
			return invalid("value is not a valid int")
		}
	case SettingTypeBool:
		if _, err := strconv.ParseBool(p.Value); err != nil {
			return invalid("value is not a valid bool")
		}
	case SettingTypeFloat:
		if _, err := strconv.ParseFloat(p.Value, 64); err != nil {
			return invalid("value is not a valid float")
		}
	default:
		return invalid("invalid value_type")
	}
	return nil
}

// Int returns the coerced integer value; zero when the type does not match.
func (s Setting) Int() int64 {
	if s.ValueType != SettingTypeInt {
		return 0
	}
	v, _ := strconv.ParseInt(s.Value, 10, 64)
	return v
}

func (s Setting) Bool() bool {
	if s.ValueType != SettingTypeBool {
		return false
	}
	v, _ := strconv.ParseBool(s.Value)
	return v
}

func (s Setting) Float() float64 {
	if s.ValueType != SettingTypeFloat {
		return 0
	}
	v, _ := strconv.ParseFloat(s.Value, 64)
	return v
}
