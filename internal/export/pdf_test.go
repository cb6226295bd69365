package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/table"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "Thiet bi Da Nang", Fold("Thiết bị Đà Nẵng"))
	assert.Equal(t, "Khong co ket qua.", Fold(table.EmptyMessage))
	assert.Equal(t, "plain", Fold("plain"))
}

func TestPDF_WritesDocument(t *testing.T) {
	sheet := table.Sheet{
		Headers: []string{"Mã", "Tên tổ chức", "Trạng thái"},
		Rows: [][]string{
			{"org-1", "Công ty Cổ phần Cà phê Sài Gòn với một cái tên rất dài", "Hoạt động"},
			{"org-2", "Beta", "Không hoạt động"},
		},
	}
	for i := 0; i < 60; i++ {
		sheet.Rows = append(sheet.Rows, []string{"x", "y", "z"})
	}

	var buf bytes.Buffer
	err := PDF(&buf, sheet, Options{Title: "Tổ chức", Generated: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDF_EmptySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, table.Sheet{Headers: []string{"Mã"}}, Options{Title: "Đơn hàng"}))
	assert.NotZero(t, buf.Len())
}

func TestPDF_MissingFontFails(t *testing.T) {
	var buf bytes.Buffer
	err := PDF(&buf, table.Sheet{Headers: []string{"Mã"}}, Options{Title: "x", FontPath: "/nonexistent/font.ttf"})
	assert.Error(t, err)
}

func TestColumnWidths_FillPage(t *testing.T) {
	sheet := table.Sheet{Headers: []string{"a", "a much longer header"}, Rows: [][]string{{"1", "2"}}}
	widths := columnWidths(sheet, 277)
	require.Len(t, widths, 2)
	assert.InDelta(t, 277, widths[0]+widths[1], 0.001)
	assert.Greater(t, widths[1], widths[0])
	assert.Nil(t, columnWidths(table.Sheet{}, 277))
}
