package fetch

import (
	"bytes"
	"encoding/json"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Body struct {
	Format Format
	raw    []byte
}

func NewBody(format Format, raw []byte) *Body {
	return &Body{
		Format: format,
		raw:    bytes.TrimPrefix(raw, utf8BOM),
	}
}

func (b *Body) Bytes() []byte {
	return b.raw
}

func (b *Body) Decode(v any) error {
	return json.Unmarshal(b.raw, v)
}

// Lines splits a text body into lines, dropping carriage returns and the
// trailing empty line
func (b *Body) Lines() []string {
	text := strings.ReplaceAll(string(b.raw), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
