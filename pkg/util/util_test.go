package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimDisplayString(t *testing.T) {
	assert.Equal(t, "天水圍循環綫", TrimDisplayString("天水圍循環綫", 9, 22))
	assert.Equal(t, "一二三四五六七八九", TrimDisplayString("一二三四五六七八九十", 9, 22))
	assert.Equal(t, "Tin Shui Wai Circular", TrimDisplayString("Tin Shui Wai Circular", 9, 22))
	assert.Equal(t, "Kowloon Tong Station (", TrimDisplayString("Kowloon Tong Station (Exit C)", 9, 22))
	assert.Equal(t, "", TrimDisplayString("", 9, 22))

	// mixed scripts are cut by width, not by rune count
	assert.Equal(t, "將軍澳 (TKO)", TrimDisplayString("將軍澳 (TKO)", 9, 22))
	assert.Equal(t, "天水圍 (Tin Shui W", TrimDisplayString("天水圍 (Tin Shui Wai) Station", 9, 22))
	assert.Equal(t, "一二三四", TrimDisplayString("一二三四五", 4, 22))
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 12, DisplayWidth("將軍澳 (TKO)"))
	assert.Equal(t, 4, DisplayWidth("Exit"))
	assert.Equal(t, 0, DisplayWidth(""))
}

func TestCalendarDaysBetween(t *testing.T) {
	hk := time.FixedZone("HKT", 8*3600)

	a := time.Date(2024, 1, 1, 23, 59, 0, 0, hk)
	b := time.Date(2024, 1, 2, 0, 1, 0, 0, hk)
	assert.Equal(t, 1, CalendarDaysBetween(a, b))

	assert.Equal(t, 0, CalendarDaysBetween(a, a))
	assert.Equal(t, 31, CalendarDaysBetween(a, time.Date(2024, 2, 1, 8, 0, 0, 0, hk)))
	assert.Equal(t, -1, CalendarDaysBetween(b, a))

	// 2024 is a leap year
	assert.Equal(t, 366, CalendarDaysBetween(time.Date(2024, 1, 1, 0, 0, 0, 0, hk), time.Date(2025, 1, 1, 0, 0, 0, 0, hk)))
}

func TestMinutesUntil(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, MinutesUntil(now, now.Add(5*time.Minute)))
	assert.Equal(t, 4, MinutesUntil(now, now.Add(4*time.Minute+59*time.Second)))
	assert.Equal(t, 0, MinutesUntil(now, now.Add(-3*time.Minute)))
}

func TestInPlaceFilter(t *testing.T) {
	values := []string{"a", "", "b", ""}
	InPlaceFilter(&values, func(s string) bool { return s != "" })

	assert.Equal(t, []string{"a", "b"}, values)
}

func TestFlexTypes(t *testing.T) {
	var decoded struct {
		Number   FlexInt    `json:"number"`
		Quoted   FlexInt    `json:"quoted"`
		Float    FlexInt    `json:"float"`
		Text     FlexInt    `json:"text"`
		Missing  FlexInt    `json:"missing"`
		Null     FlexInt    `json:"null"`
		Stop     FlexString `json:"stop"`
		StopNum  FlexString `json:"stop_num"`
		Bool     FlexBool   `json:"bool"`
		BoolText FlexBool   `json:"bool_text"`
	}

	err := json.Unmarshal([]byte(`{
		"number": 5,
		"quoted": "12",
		"float": 3.0,
		"text": "Arriving",
		"null": null,
		"stop": "K12-U010",
		"stop_num": 430,
		"bool": true,
		"bool_text": "1"
	}`), &decoded)
	require.NoError(t, err)

	assert.Equal(t, FlexInt{Value: 5, Valid: true}, decoded.Number)
	assert.Equal(t, FlexInt{Value: 12, Valid: true}, decoded.Quoted)
	assert.Equal(t, FlexInt{Value: 3, Valid: true}, decoded.Float)
	assert.False(t, decoded.Text.Valid)
	assert.False(t, decoded.Missing.Valid)
	assert.False(t, decoded.Null.Valid)
	assert.Equal(t, FlexString("K12-U010"), decoded.Stop)
	assert.Equal(t, FlexString("430"), decoded.StopNum)
	assert.True(t, bool(decoded.Bool))
	assert.True(t, bool(decoded.BoolText))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "route.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
