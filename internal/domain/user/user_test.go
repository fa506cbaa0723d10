package user

import "testing"

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr string
	}{
		{name: "valid", req: CreateRequest{Email: "a@b.com", Name: "A", Password: "12345678"}},
		{name: "missing email", req: CreateRequest{Name: "A", Password: "12345678"}, wantErr: "email is required"},
		{name: "invalid email", req: CreateRequest{Email: "bad", Name: "A", Password: "12345678"}, wantErr: "invalid email format"},
		{name: "missing name", req: CreateRequest{Email: "a@b.com", Password: "12345678"}, wantErr: "name is required"},
		{name: "missing password", req: CreateRequest{Email: "a@b.com", Name: "A"}, wantErr: "password is required"},
		{name: "short password", req: CreateRequest{Email: "a@b.com", Name: "A", Password: "short"}, wantErr: "password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if got := err.Error(); got != tt.wantErr {
				t.Fatalf("error = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestCreateRequest_Normalize(t *testing.T) {
	req := CreateRequest{Email: "  Jane@Example.COM ", Name: " Jane "}
	req.Normalize()
	if req.Email != "jane@example.com" || req.Name != "Jane" {
		t.Fatalf("got %q / %q", req.Email, req.Name)
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	if err := (&LoginRequest{Password: "x"}).Validate(); err == nil {
		t.Error("expected error for missing email")
	}
	if err := (&LoginRequest{Email: "a@b.com"}).Validate(); err == nil {
		t.Error("expected error for missing password")
	}
	if err := (&LoginRequest{Email: "a@b.com", Password: "x"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
