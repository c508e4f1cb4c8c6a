package validator

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.example.org"}
	invalid := []string{"", "alice", "alice@", "@example.com", "Alice <alice@example.com>"}

	for _, e := range valid {
		if err := ValidEmail(e); err != nil {
			t.Errorf("ValidEmail(%q) = %v, want nil", e, err)
		}
	}
	for _, e := range invalid {
		if err := ValidEmail(e); err == nil {
			t.Errorf("ValidEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidUsername(t *testing.T) {
	valid := []string{"bob", "alice.smith", "user_42", "a-b-c"}
	invalid := []string{"ab", "has space", "semi;colon", ""}

	for _, u := range valid {
		if err := ValidUsername(u); err != nil {
			t.Errorf("ValidUsername(%q) = %v, want nil", u, err)
		}
	}
	for _, u := range invalid {
		if err := ValidUsername(u); err == nil {
			t.Errorf("ValidUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidPassword(t *testing.T) {
	if err := ValidPassword("short"); err == nil {
		t.Error("Expected error for short password")
	}
	if err := ValidPassword("longenough"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidEntityID(t *testing.T) {
	if err := ValidEntityID("org_3e7d7a1e-3f7c-4d0e-9a93-0d53e9b6c5e7", "org"); err != nil {
		t.Errorf("Unexpected error for well-formed id: %v", err)
	}

	invalid := []string{
		"42",
		"org_42",
		"org_",
		"ns_3e7d7a1e-3f7c-4d0e-9a93-0d53e9b6c5e7",
		"",
	}
	for _, id := range invalid {
		if err := ValidEntityID(id, "org"); err == nil {
			t.Errorf("ValidEntityID(%q) = nil, want error", id)
		}
	}
}

func TestValidNamespaceName(t *testing.T) {
	valid := []string{"acme", "acme-links", "team_42", "A1"}
	invalid := []string{"", "has space", "bad/slash", "api", "dotted.name"}

	for _, n := range valid {
		if err := ValidNamespaceName(n); err != nil {
			t.Errorf("ValidNamespaceName(%q) = %v, want nil", n, err)
		}
	}
	for _, n := range invalid {
		if err := ValidNamespaceName(n); err == nil {
			t.Errorf("ValidNamespaceName(%q) = nil, want error", n)
		}
	}
}
