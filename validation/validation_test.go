package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/dataprep/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"John", false},
		{"", true},
		{"   ", true},
	}
	for _, tc := range tests {
		v := New().Required("name", tc.value)
		if v.HasErrors() != tc.wantErr {
			t.Errorf("%q: expected errors=%v, got %v", tc.value, tc.wantErr, v.Errors())
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	scopes := []string{"cell", "line", "column", "dataset"}
	if New().OneOf("scope", "line", scopes).HasErrors() {
		t.Error("expected no error for an allowed value")
	}
	if New().OneOf("scope", "", scopes).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	v := New().OneOf("scope", "table", scopes)
	if !v.HasErrors() || !strings.Contains(v.Errors()[0].Message, "cell, line") {
		t.Errorf("expected one-of error, got %v", v.Errors())
	}
}

func TestValidatorPatternAndMin(t *testing.T) {
	v := New().
		Pattern("row_id", "12", `^\d+$`).
		Pattern("row_id", "", `^\d+$`).
		Min("limit", 0, 0)
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}
	v = New().Pattern("row_id", "x1", `^\d+$`).Min("limit", -1, 0)
	if len(v.Errors()) != 2 {
		t.Errorf("expected 2 errors, got %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Fatal("expected nil for no errors")
	}
	v := New()
	v.AddError("steps[0].action", "is required")
	v.Custom(false, "steps", "must not be empty")

	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "steps[0].action: is required; steps: must not be empty") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
}

type step struct {
	Action string `json:"action" validate:"required"`
}

type prep struct {
	Name  string `json:"name"`
	Steps []step `json:"steps" validate:"dive"`
	Limit int    `json:"limit" validate:"min=0"`
}

func TestValidateStruct(t *testing.T) {
	if err := Validate(prep{Steps: []step{{Action: "uppercase"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(prep{Steps: []step{{Action: "uppercase"}, {}}, Limit: -1})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if !strings.Contains(appErr.Message, "steps[1].action: is required") {
		t.Errorf("expected nested field path, got %q", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "limit: must be at least 0") {
		t.Errorf("expected min error, got %q", appErr.Message)
	}
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()
	got, err := ValidateUUID("step_id", id.String())
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}
	for _, bad := range []string{"", "nope"} {
		if _, err := ValidateUUID("step_id", bad); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%q: expected INVALID_INPUT, got %v", bad, err)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("StepID"); got != "step_i_d" {
		t.Errorf("expected step_i_d, got %q", got)
	}
	if got := toSnakeCase("Action"); got != "action" {
		t.Errorf("expected action, got %q", got)
	}
}
