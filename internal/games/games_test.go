package games

import "testing"

func TestForModule(t *testing.T) {
	tests := []struct {
		moduleID string
		wantID   string
		wantOK   bool
	}{
		{"passwords", "password-audit", true},
		{"phishing", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		g, ok := ForModule(tt.moduleID)
		if ok != tt.wantOK {
			t.Errorf("ForModule(%q) ok = %v, want %v", tt.moduleID, ok, tt.wantOK)
		}
		if g.ID != tt.wantID {
			t.Errorf("ForModule(%q) = %q, want %q", tt.moduleID, g.ID, tt.wantID)
		}
	}
}

func TestByID(t *testing.T) {
	g, ok := ByID("password-audit")
	if !ok || g.Title == "" {
		t.Errorf("ByID(password-audit) = %+v, %v", g, ok)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID(nope) should not resolve")
	}
}
