package validator

import (
	"strings"
	"testing"
	"time"

	"stayindia/pkg/config"
	"stayindia/pkg/model"
)

const validListingID = "507f1f77bcf86cd799439011"

func newTestValidator(t *testing.T, today string) *BookingValidator {
	t.Helper()
	v := NewBookingValidator(&config.Config{MaxBookingSpanDays: 365})
	now, err := time.ParseInLocation(model.BookingDateLayout, today, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", today, err)
	}
	v.now = func() time.Time { return now }
	return v
}

func TestValidateRequest_Valid(t *testing.T) {
	v := newTestValidator(t, "2026-03-01")

	window, err := v.ValidateRequest(&model.BookingRequest{
		ListingID: validListingID,
		CheckIn:   "2026-03-10",
		CheckOut:  "2026-03-13",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if window.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", window.Nights)
	}
	if !window.CheckIn.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected check-in: %v", window.CheckIn)
	}
	if !window.CheckOut.Equal(time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected check-out: %v", window.CheckOut)
	}
}

func TestValidateRequest_CheckInToday(t *testing.T) {
	v := newTestValidator(t, "2026-03-01")

	_, err := v.ValidateRequest(&model.BookingRequest{
		ListingID: validListingID,
		CheckIn:   "2026-03-01",
		CheckOut:  "2026-03-02",
	})
	if err != nil {
		t.Fatalf("check-in of today should be accepted, got: %v", err)
	}
}

func TestValidateRequest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		request model.BookingRequest
		wantMsg string
	}{
		{
			name:    "missing listing ID",
			request: model.BookingRequest{CheckIn: "2026-03-10", CheckOut: "2026-03-12"},
			wantMsg: "ListingID is required",
		},
		{
			name:    "malformed listing ID",
			request: model.BookingRequest{ListingID: "not-an-oid", CheckIn: "2026-03-10", CheckOut: "2026-03-12"},
			wantMsg: "ListingID must be a valid MongoDB ObjectID",
		},
		{
			name:    "missing check-in",
			request: model.BookingRequest{ListingID: validListingID, CheckOut: "2026-03-12"},
			wantMsg: "CheckIn is required",
		},
		{
			name:    "malformed check-in",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "10/03/2026", CheckOut: "2026-03-12"},
			wantMsg: "check_in must be a valid date",
		},
		{
			name:    "malformed check-out",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "2026-03-10", CheckOut: "soon"},
			wantMsg: "check_out must be a valid date",
		},
		{
			name:    "check-in in the past",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "2026-02-28", CheckOut: "2026-03-12"},
			wantMsg: "check_in cannot be in the past",
		},
		{
			name:    "check-out equals check-in",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "2026-03-10", CheckOut: "2026-03-10"},
			wantMsg: "check_out must be after check_in",
		},
		{
			name:    "check-out before check-in",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "2026-03-12", CheckOut: "2026-03-10"},
			wantMsg: "check_out must be after check_in",
		},
		{
			name:    "stay longer than a year",
			request: model.BookingRequest{ListingID: validListingID, CheckIn: "2026-03-10", CheckOut: "2027-03-12"},
			wantMsg: "stay cannot exceed 365 nights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t, "2026-03-01")
			_, err := v.ValidateRequest(&tt.request)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateRequest_MaxSpanBoundary(t *testing.T) {
	v := newTestValidator(t, "2026-03-01")

	// exactly 365 nights is allowed
	window, err := v.ValidateRequest(&model.BookingRequest{
		ListingID: validListingID,
		CheckIn:   "2026-03-10",
		CheckOut:  "2027-03-10",
	})
	if err != nil {
		t.Fatalf("365-night stay should be accepted, got: %v", err)
	}
	if window.Nights != 365 {
		t.Errorf("expected 365 nights, got %d", window.Nights)
	}
}
