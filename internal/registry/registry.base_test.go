// Package registry - Test registry pattern generic.
package registry

import (
	"errors"
	"testing"
)

func TestRegister_GhiDeVaIsNew(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	if err != nil || !isNew {
		t.Errorf("Register lần đầu: isNew=%v err=%v, muốn true/nil", isNew, err)
	}

	isNew, err = r.Register("a", 2)
	if err != nil || isNew {
		t.Errorf("Register ghi đè: isNew=%v err=%v, muốn false/nil", isNew, err)
	}

	if v, ok := r.Get("a"); !ok || v != 2 {
		t.Errorf("Get sau ghi đè = (%d, %v), muốn (2, true)", v, ok)
	}
}

func TestRegister_TenRong(t *testing.T) {
	r := NewRegistry[int]()
	if _, err := r.Register("", 1); err == nil {
		t.Error("Register với tên rỗng phải trả về lỗi")
	}
}

func TestGetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	creator := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := r.GetOrCreate("k", creator)
	if err != nil || v != "value" {
		t.Fatalf("GetOrCreate = (%q, %v)", v, err)
	}
	// Lần hai dùng lại item đã có, không gọi creator
	if _, err := r.GetOrCreate("k", creator); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("creator được gọi %d lần, muốn 1", calls)
	}
}

func TestClear_GoiCleanup(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)

	cleaned := false
	deleted, err := r.Clear("a", func(int) error {
		cleaned = true
		return nil
	})
	if err != nil || !deleted || !cleaned {
		t.Errorf("Clear: deleted=%v cleaned=%v err=%v", deleted, cleaned, err)
	}

	// Cleanup lỗi → item không bị xóa
	r.Register("b", 2)
	deleted, err = r.Clear("b", func(int) error { return errors.New("busy") })
	if err == nil || deleted {
		t.Errorf("Clear với cleanup lỗi: deleted=%v err=%v, muốn false/lỗi", deleted, err)
	}
	if _, ok := r.Get("b"); !ok {
		t.Error("item phải còn trong registry khi cleanup thất bại")
	}
}
