package validation

import (
	"testing"

	"github.com/kbukum/modelgraph/errors"
)

func TestValidator_Collects(t *testing.T) {
	v := New()
	v.Required("name", "").MaxLength("label", "abcdef", 3)
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(v.Errors()))
	}
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New()
	v.Required("name", "graph").NonNegative("max_chunk_size", 0)
	if v.Validate() != nil {
		t.Error("expected nil for valid input")
	}
}

func TestValidator_RequiredUUID(t *testing.T) {
	v := New()
	v.RequiredUUID("job_id", "not-a-uuid")
	if !v.HasErrors() {
		t.Error("expected error for malformed UUID")
	}

	v = New()
	v.RequiredUUID("job_id", "00000000-0000-0000-0000-000000000000")
	if !v.HasErrors() {
		t.Error("expected error for nil UUID")
	}

	v = New()
	v.RequiredUUID("job_id", "9f4c5e9e-2f64-4af1-9c8e-6a1b2c3d4e5f")
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}
}

type manifestStub struct {
	Name    string `yaml:"name" validate:"required"`
	Retries int    `yaml:"retries" validate:"gte=0"`
	Mode    string `yaml:"mode" validate:"oneof=batch streaming"`
}

func TestValidate_StructTags(t *testing.T) {
	err := Validate(manifestStub{Name: "chain", Retries: 1, Mode: "batch"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err = Validate(manifestStub{Retries: -1, Mode: "bogus"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatal("expected AppError")
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(fields), fields)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"MaxChunkSize": "max_chunk_size",
		"Name":         "name",
		"acceptsData":  "accepts_data",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
