package validator

import "testing"

func TestValidator(t *testing.T) {
	v := New()

	if !v.Valid() {
		t.Fatal("new validator should be valid")
	}

	v.Check(true, "title", "title must be provided")
	if !v.Valid() {
		t.Fatal("passing check should not record an error")
	}

	v.Check(false, "title", "title must be provided")
	v.Check(false, "title", "another message")
	v.AddError("from", "from must be provided")

	if v.Valid() {
		t.Fatal("validator with errors should not be valid")
	}
	if got := v.Errors["title"]; got != "title must be provided" {
		t.Errorf("first message should win, got %q", got)
	}
	if len(v.Errors) != 2 {
		t.Errorf("expected 2 keys, got %v", len(v.Errors))
	}
}
