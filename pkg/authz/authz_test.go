package authz

import (
	"testing"

	apperrors "stayindia/pkg/errors"
)

func TestCan(t *testing.T) {
	a := New()

	owner := Actor{ID: "u1", Role: RoleUser}
	guest := Actor{ID: "u2", Role: RoleUser}
	admin := Actor{ID: "u9", Role: RoleAdmin}
	listing := Resource{Type: ResourceListing, ID: "l1", OwnerID: "u1"}

	tests := []struct {
		name     string
		actor    Actor
		action   string
		res      Resource
		wantCode string // empty means allowed
	}{
		{"guest books someone else's listing", guest, ActionBook, Resource{Type: ResourceBooking, OwnerID: "u1"}, ""},
		{"owner books own listing", owner, ActionBook, Resource{Type: ResourceBooking, OwnerID: "u1"}, apperrors.CodeInvalidInput},
		{"owner updates own listing", owner, ActionUpdate, listing, ""},
		{"guest updates someone else's listing", guest, ActionUpdate, listing, apperrors.CodeForbidden},
		{"admin updates any listing", admin, ActionUpdate, listing, ""},
		{"admin deletes a booking", admin, ActionDelete, Resource{Type: ResourceBooking, OwnerID: "u2"}, ""},
		{"user deletes a booking", guest, ActionDelete, Resource{Type: ResourceBooking, OwnerID: "u2"}, apperrors.CodeForbidden},
		{"guest reads own booking", guest, ActionRead, Resource{Type: ResourceBooking, OwnerID: "u2"}, ""},
		{"guest reads someone else's booking", guest, ActionRead, Resource{Type: ResourceBooking, OwnerID: "u1"}, apperrors.CodeForbidden},
		{"admin reads any booking", admin, ActionRead, Resource{Type: ResourceBooking, OwnerID: "u2"}, ""},
		{"anyone reads a listing", guest, ActionRead, listing, ""},
		{"anonymous actor", Actor{}, ActionBook, Resource{Type: ResourceBooking}, apperrors.CodeUnauthorized},
		{"empty role defaults to user", Actor{ID: "u3"}, ActionBook, Resource{Type: ResourceBooking, OwnerID: "u1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Can(tt.actor, tt.action, tt.res)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected refusal with code %s, got allow", tt.wantCode)
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}
