package health

import (
	"testing"

	"github.com/btccompare/venuecost/internal/models"
)

func TestMonitor_StatusTransitions(t *testing.T) {
	m := NewMonitor()

	// Never-seen venue is unknown, not healthy.
	if got := m.Status("kraken"); got != models.HealthUnknown {
		t.Errorf("expected unknown before any events, got %s", got)
	}

	m.RecordSuccess("kraken")
	if got := m.Status("kraken"); got != models.HealthHealthy {
		t.Errorf("expected healthy after success, got %s", got)
	}

	m.RecordFailure("kraken", "timeout")
	if got := m.Status("kraken"); got != models.HealthDegraded {
		t.Errorf("expected degraded after one failure, got %s", got)
	}
	m.RecordFailure("kraken", "timeout")
	if got := m.Status("kraken"); got != models.HealthDegraded {
		t.Errorf("expected degraded after two failures, got %s", got)
	}

	m.RecordFailure("kraken", "timeout")
	if got := m.Status("kraken"); got != models.HealthDown {
		t.Errorf("expected down after three failures, got %s", got)
	}
}

func TestMonitor_ShouldHideAtThreshold(t *testing.T) {
	m := NewMonitor()

	m.RecordFailure("bitstamp", "502")
	m.RecordFailure("bitstamp", "502")
	if m.ShouldHide("bitstamp") {
		t.Error("two failures must not hide a venue")
	}

	m.RecordFailure("bitstamp", "502")
	if !m.ShouldHide("bitstamp") {
		t.Error("three consecutive failures must hide the venue")
	}
	if m.ConsecutiveFailures("bitstamp") != 3 {
		t.Errorf("expected streak of 3, got %d", m.ConsecutiveFailures("bitstamp"))
	}

	if m.ShouldHide("kraken") {
		t.Error("venue with no records must not be hidden")
	}
}

func TestMonitor_SuccessResetsStreak(t *testing.T) {
	m := NewMonitor()

	for i := 0; i < 5; i++ {
		m.RecordFailure("okx", "rate limited")
	}
	if !m.ShouldHide("okx") {
		t.Fatal("expected venue hidden after failure run")
	}
	if m.LastError("okx") != "rate limited" {
		t.Errorf("expected last error preserved, got %q", m.LastError("okx"))
	}

	// A single success fully recovers the venue.
	m.RecordSuccess("okx")
	if m.ShouldHide("okx") {
		t.Error("expected venue visible after success")
	}
	if m.ConsecutiveFailures("okx") != 0 {
		t.Errorf("expected streak reset, got %d", m.ConsecutiveFailures("okx"))
	}
	if m.LastError("okx") != "" {
		t.Errorf("expected last error cleared, got %q", m.LastError("okx"))
	}
	if got := m.Status("okx"); got != models.HealthHealthy {
		t.Errorf("expected healthy after recovery, got %s", got)
	}
}

func TestMonitor_VenuesAreIndependent(t *testing.T) {
	m := NewMonitor()

	m.RecordFailure("gemini", "404")
	m.RecordSuccess("kraken")

	if m.Status("gemini") != models.HealthDegraded {
		t.Error("gemini should be degraded")
	}
	if m.Status("kraken") != models.HealthHealthy {
		t.Error("kraken should be healthy")
	}
}

func TestMonitor_Snapshot(t *testing.T) {
	m := NewMonitor()
	m.RecordFailure("bitfinex", "dns failure")
	m.RecordSuccess("kraken")

	snap := m.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap))
	}

	rec := snap["bitfinex"]
	if rec.ConsecutiveFailures != 1 || rec.LastError != "dns failure" {
		t.Errorf("unexpected bitfinex record: %+v", rec)
	}
	if rec.LastFailure.IsZero() {
		t.Error("expected failure time recorded")
	}

	// Snapshot is a copy; mutating it must not touch the monitor.
	rec.ConsecutiveFailures = 99
	snap["bitfinex"] = rec
	if m.ConsecutiveFailures("bitfinex") != 1 {
		t.Error("snapshot mutation leaked into monitor")
	}

	m.Clear()
	if len(m.Snapshot()) != 0 {
		t.Error("expected empty snapshot after Clear")
	}
}
