package common

import (
	"errors"
	"testing"
)

func TestWrapError_GiuHopDongSentinel(t *testing.T) {
	cause := errors.New("write conflict sau retry")
	err := WrapError(ErrConflict, cause)

	if !errors.Is(err, ErrConflict) {
		t.Error("errors.Is với ErrConflict phải đúng sau khi wrap")
	}
	if errors.Is(err, ErrStaleSnapshot) {
		t.Error("wrap ErrConflict không được khớp sentinel khác")
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("lỗi wrap phải là *Error")
	}
	if appErr.StatusCode != StatusConflict {
		t.Errorf("StatusCode = %d, muốn %d", appErr.StatusCode, StatusConflict)
	}
	if appErr.Details != cause {
		t.Error("Details phải giữ nguyên lỗi gốc")
	}
}

func TestWrapError_StaleSnapshotKemDetails(t *testing.T) {
	err := WrapError(ErrStaleSnapshot, map[string]interface{}{"ageSec": int64(900)})

	if !errors.Is(err, ErrStaleSnapshot) {
		t.Error("errors.Is với ErrStaleSnapshot phải đúng sau khi wrap")
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("lỗi wrap phải là *Error")
	}
	if appErr.Code != ErrCodeStatsStale {
		t.Errorf("Code = %s, muốn %s", appErr.Code.Code, ErrCodeStatsStale.Code)
	}
}

func TestWrapError_NgoaiTaxonomy(t *testing.T) {
	plain := errors.New("lỗi ngoài taxonomy")
	if got := WrapError(plain, nil); got != plain {
		t.Error("error ngoài taxonomy phải được trả về nguyên vẹn")
	}
}

func TestWrapError_ValidationSentinel(t *testing.T) {
	cause := errors.New("beans phải > 0")
	err := WrapError(ErrValidation, cause)

	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is với ErrValidation phải đúng sau khi wrap")
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("lỗi wrap phải là *Error")
	}
	if appErr.StatusCode != StatusBadRequest {
		t.Errorf("StatusCode = %d, muốn %d", appErr.StatusCode, StatusBadRequest)
	}
}
