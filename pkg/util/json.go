package util

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt decodes from either a JSON number or a numeric string. Upstream
// feeds are not consistent about which they send.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var number json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		number = json.Number(strings.TrimSpace(s))
	} else {
		number = json.Number(data)
	}

	if n, err := strconv.Atoi(number.String()); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	if n, err := number.Float64(); err == nil {
		f.Value, f.Valid = int(n), true
	}

	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// FlexString decodes from a JSON string, number or boolean
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	*f = FlexString(data)
	return nil
}

// FlexBool accepts true/false, 1/0 and their string forms
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(bytes.TrimSpace(data)), `"`)

	switch strings.ToLower(value) {
	case "true", "1", "y", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
