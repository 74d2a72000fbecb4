package models

import (
	"testing"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain"
)

func TestCanTransitionTable(t *testing.T) {
	all := []Status{StatusRequested, StatusApproved, StatusCancelled, StatusCompleted}
	legal := map[Status][]Status{
		StatusRequested: {StatusApproved, StatusCancelled},
		StatusApproved:  {StatusCompleted, StatusCancelled},
		StatusCancelled: {},
		StatusCompleted: {},
	}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			want := false
			for _, ok := range legal[from] {
				if ok == to {
					want = true
				}
			}
			if want && err != nil {
				t.Fatalf("%s -> %s should be legal, got %v", from, to, err)
			}
			if !want && err == nil {
				t.Fatalf("%s -> %s should be rejected", from, to)
			}
			if !want && !domain.IsValidation(err) {
				t.Fatalf("%s -> %s should fail as validation error, got %T", from, to, err)
			}
		}
	}
}

func TestCanTransitionSameStatusMessage(t *testing.T) {
	err := CanTransition(StatusRequested, StatusRequested)
	if err == nil {
		t.Fatal("same-status transition must be rejected")
	}
	if got := err.Error(); got != "status: status not changed" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestApplyTransitionStampsOnce(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	r := Reservation{Status: StatusRequested}

	if err := r.ApplyTransition(StatusApproved, "manager", now); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !r.ApprovalTime.Valid || !r.ApprovalTime.Time.Equal(now) {
		t.Fatalf("approval time not stamped: %+v", r.ApprovalTime)
	}
	if !r.ApprovedBy.Valid || r.ApprovedBy.String != "manager" {
		t.Fatalf("approver not recorded: %+v", r.ApprovedBy)
	}

	later := now.Add(2 * time.Hour)
	if err := r.ApplyTransition(StatusCompleted, "manager", later); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !r.CompletionTime.Valid || !r.CompletionTime.Time.Equal(later) {
		t.Fatalf("completion time not stamped: %+v", r.CompletionTime)
	}
	// first approval stamp must survive the later transition
	if !r.ApprovalTime.Time.Equal(now) {
		t.Fatalf("approval time overwritten: %+v", r.ApprovalTime)
	}

	if err := r.ApplyTransition(StatusCancelled, "guest", later); err == nil {
		t.Fatal("transition out of completed must fail")
	}
}

func TestApplyTransitionCancelRecordsCaller(t *testing.T) {
	now := time.Now()
	r := Reservation{Status: StatusRequested}

	if err := r.ApplyTransition(StatusCancelled, "13800000000", now); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !r.CancelledBy.Valid || r.CancelledBy.String != "13800000000" {
		t.Fatalf("canceller not recorded: %+v", r.CancelledBy)
	}
	if !r.CancellationTime.Valid {
		t.Fatal("cancellation time not stamped")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"requested", "approved", "cancelled", "completed"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "Requested", "done", "CANCELLED"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Fatalf("ParseStatus(%q) should fail", raw)
		}
	}
}

func TestParseArrivalTime(t *testing.T) {
	if _, err := ParseArrivalTime("lunch"); err != nil {
		t.Fatalf("lunch should parse: %v", err)
	}
	if _, err := ParseArrivalTime("dinner"); err != nil {
		t.Fatalf("dinner should parse: %v", err)
	}
	if _, err := ParseArrivalTime("breakfast"); err == nil {
		t.Fatal("breakfast should be rejected")
	}
}

func TestMobilePhonePattern(t *testing.T) {
	valid := []string{"13800000000", "19912345678", "15512341234"}
	invalid := []string{"12800000000", "1380000000", "138000000000", "23800000000", "1380000000a", ""}

	for _, p := range valid {
		if !MobilePhonePattern.MatchString(p) {
			t.Fatalf("%q should be valid", p)
		}
	}
	for _, p := range invalid {
		if MobilePhonePattern.MatchString(p) {
			t.Fatalf("%q should be invalid", p)
		}
	}
}
