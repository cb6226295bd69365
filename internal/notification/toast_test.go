package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToaster_PushAndDrain(t *testing.T) {
	toaster := NewToaster(time.Minute)

	toaster.Success("s1", "Thành công", "Xóa tổ chức thành công.")
	toaster.Error("s1", "Xóa tổ chức thất bại", "Đã xảy ra lỗi không xác định")
	toaster.Push("s2", Toast{Title: "x"})
	toaster.Push("", Toast{Title: "ignored"})

	got := toaster.Drain("s1")
	assert.Len(t, got, 2)
	assert.Equal(t, VariantSuccess, got[0].Variant)
	assert.Equal(t, VariantDestructive, got[1].Variant)
	assert.Empty(t, toaster.Drain("s1"))

	other := toaster.Drain("s2")
	assert.Len(t, other, 1)
	assert.Equal(t, VariantDefault, other[0].Variant)
}

func TestToaster_Expires(t *testing.T) {
	toaster := NewToaster(20 * time.Millisecond)
	toaster.Push("s1", Toast{Title: "x"})
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, toaster.Drain("s1"))
}
