package access

import (
	"context"
	"errors"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
)

func TestOwnerPolicy_NoIdentity(t *testing.T) {
	var p OwnerPolicy
	if _, err := p.Owner(context.Background()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if p.Visible(context.Background(), "") {
		t.Fatal("empty owner must never be visible to an anonymous caller")
	}
}

func TestOwnerPolicy_AuthorizeInsert(t *testing.T) {
	var p OwnerPolicy
	ctx := WithOwner(context.Background(), "user-a")

	tests := []struct {
		name     string
		rowOwner string
		want     string
		wantErr  error
	}{
		{"empty owner stamped with caller", "", "user-a", nil},
		{"matching owner accepted", "user-a", "user-a", nil},
		{"foreign owner rejected", "user-b", "", domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.AuthorizeInsert(ctx, tt.rowOwner)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("owner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOwnerPolicy_Visible(t *testing.T) {
	var p OwnerPolicy
	ctx := WithOwner(context.Background(), "user-a")
	if !p.Visible(ctx, "user-a") {
		t.Error("own row should be visible")
	}
	if p.Visible(ctx, "user-b") {
		t.Error("foreign row should not be visible")
	}
}
