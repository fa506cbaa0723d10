package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr bool
	}{
		{"valid", Input{Type: "call", Subject: "Intro call"}, false},
		{"missing type", Input{Subject: "Intro call"}, true},
		{"unknown type", Input{Type: "fax", Subject: "Intro call"}, true},
		{"missing subject", Input{Type: "note"}, true},
		{"bad date", Input{Type: "note", Subject: "x", ActivityDate: "later"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestInputRowDefaultsDateToNow(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	a := Input{Type: "email", Subject: "Follow-up"}.Row()
	if a.ActivityDate.Before(before) {
		t.Errorf("activity date %v should default to submission time", a.ActivityDate)
	}

	a = Input{Type: "email", Subject: "Follow-up", ActivityDate: "2024-01-02T03:04"}.Row()
	if !a.ActivityDate.Equal(time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)) {
		t.Errorf("explicit date not kept: %v", a.ActivityDate)
	}
}
