package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type mailForm struct {
	Subject string `validate:"notblank"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		t.Fatalf("RegisterRules: %v", err)
	}
	return v
}

func TestIsAllowedVideo(t *testing.T) {
	for _, name := range []string{"a.mp4", "b.MOV", "c.avi", "d.Mkv"} {
		if !IsAllowedVideo(name) {
			t.Errorf("%s should be accepted", name)
		}
	}
	for _, name := range []string{"a.exe", "b.MP4x", "mp4", ""} {
		if IsAllowedVideo(name) {
			t.Errorf("%s should be rejected", name)
		}
	}
}

func TestNotBlankTag(t *testing.T) {
	v := newValidator(t)
	if err := v.Struct(mailForm{Subject: "   "}); err == nil {
		t.Fatal("whitespace subject should be rejected")
	}
	if err := v.Struct(mailForm{Subject: "Hello"}); err != nil {
		t.Fatalf("subject should pass: %v", err)
	}
}

type namedForm struct {
	LessonID int64 `json:"lessonId" validate:"required"`
}

func TestFieldNamesUseJSONTag(t *testing.T) {
	err := newValidator(t).Struct(namedForm{})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if verrs[0].Field() != "lessonId" {
		t.Fatalf("field: got %q", verrs[0].Field())
	}
}

type priceForm struct {
	Price float64 `validate:"gte=0,lt=10000000000000,decimal2"`
}

func TestPriceTags(t *testing.T) {
	v := newValidator(t)
	for _, p := range []float64{0, 49.9, 49.99, 0.07, 12345.67} {
		if err := v.Struct(priceForm{Price: p}); err != nil {
			t.Errorf("%v should be accepted: %v", p, err)
		}
	}
	for _, p := range []float64{-1, 49.999, 0.001, 1e14} {
		if err := v.Struct(priceForm{Price: p}); err == nil {
			t.Errorf("%v should be rejected", p)
		}
	}
}
