package parameter

import "testing"

func TestValidate(t *testing.T) {
	options := []string{"logfile", "sqlite", "timely"}

	got, err := Validate("  SQLite ", options)
	if err != nil {
		t.Errorf("Validate: %s", err.Error())
		return
	}
	if got != "sqlite" {
		t.Errorf("expected %q, got %q", "sqlite", got)
	}

	_, err = Validate("paper", options)
	if err == nil {
		t.Errorf("expected an error for an unknown option")
	}
}
