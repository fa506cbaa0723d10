package deal

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
)

func TestParseStage(t *testing.T) {
	got, err := ParseStage("")
	if err != nil || got != StageLead {
		t.Fatalf("empty stage: got %q, %v", got, err)
	}
	for _, s := range Stages {
		if got, err := ParseStage(string(s)); err != nil || got != s {
			t.Errorf("ParseStage(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStage("won"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestClampProbability(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {55, 55}, {100, 100}, {150, 100},
	}
	for _, tt := range tests {
		if got := ClampProbability(tt.in); got != tt.want {
			t.Errorf("ClampProbability(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInputRowDefaults(t *testing.T) {
	var in Input
	if err := json.Unmarshal([]byte(`{"title":"Big deal","value":"","probability":""}`), &in); err != nil {
		t.Fatal(err)
	}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	d := in.Row()
	if d.Value != 0 {
		t.Errorf("value = %v, want 0", d.Value)
	}
	if d.Probability != 0 {
		t.Errorf("probability = %d, want 0", d.Probability)
	}
	if d.Stage != StageLead {
		t.Errorf("stage = %q, want lead", d.Stage)
	}
	if d.CompanyID != nil || d.ContactID != nil || d.ExpectedCloseDate != nil {
		t.Error("expected nil optional references")
	}
}

func TestInputRowClampsProbability(t *testing.T) {
	var in Input
	if err := json.Unmarshal([]byte(`{"title":"Big deal","value":1000,"probability":150}`), &in); err != nil {
		t.Fatal(err)
	}
	d := in.Row()
	if d.Probability != 100 {
		t.Errorf("probability = %d, want 100", d.Probability)
	}
	if d.Value != 1000 {
		t.Errorf("value = %v, want 1000", d.Value)
	}
}

func TestInputValidate(t *testing.T) {
	if err := (Input{}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing title: expected ErrValidation, got %v", err)
	}
	if err := (Input{Title: "x", Stage: "bogus"}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad stage: expected ErrValidation, got %v", err)
	}
	if err := (Input{Title: "x", ExpectedCloseDate: "soon"}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad date: expected ErrValidation, got %v", err)
	}
}

func TestInputValueBounds(t *testing.T) {
	tests := []struct {
		value   domain.Numeric
		want    float64
		wantErr bool
	}{
		{"1234.567", 1234.57, false},
		{"999999999999.99", 999999999999.99, false},
		{"-999999999999.99", -999999999999.99, false},
		{"1e12", 0, true},
		{"1e13", 0, true},
		{"-1e13", 0, true},
		{"999999999999.999", 0, true},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		in := Input{Title: "Big", Value: tt.value}
		err := in.Validate()
		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("value %q: want ErrValidation, got %v", tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("value %q: unexpected error %v", tt.value, err)
			continue
		}
		if got := in.Row().Value; got != tt.want {
			t.Errorf("value %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}
