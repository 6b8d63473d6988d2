package asset

import (
	"testing"
)

func TestAcquireMissThenBeginLoad(t *testing.T) {
	tab := NewHandleTable()

	acq := tab.Acquire("hero")
	if acq.Status != AcquireMiss {
		t.Fatalf("Acquire on empty table = %v, want AcquireMiss", acq.Status)
	}
	if tab.Refs("hero") != 0 {
		t.Errorf("miss must not take a reference, refs = %d", tab.Refs("hero"))
	}

	done, err := tab.BeginLoad("hero")
	if err != nil {
		t.Fatalf("BeginLoad: %v", err)
	}
	if tab.Refs("hero") != 1 {
		t.Errorf("BeginLoad refs = %d, want 1", tab.Refs("hero"))
	}

	// Second BeginLoad without an intervening miss must fail.
	if _, err := tab.BeginLoad("hero"); err == nil {
		t.Error("second BeginLoad succeeded, want ErrAlreadyInFlight")
	}

	select {
	case <-done:
		t.Fatal("done closed before CompleteLoad")
	default:
	}

	releaseNow, _ := tab.CompleteLoad("hero", "value", nil)
	if releaseNow {
		t.Error("CompleteLoad with live refs signalled release")
	}
	select {
	case <-done:
	default:
		t.Fatal("done not closed after CompleteLoad")
	}
	if v, err := tab.Result("hero"); err != nil || v != "value" {
		t.Errorf("Result = (%v, %v), want (value, nil)", v, err)
	}
}

func TestJoinSeesSameResult(t *testing.T) {
	tab := NewHandleTable()
	done, _ := tab.BeginLoad("hero")

	acq := tab.Acquire("hero")
	if acq.Status != AcquireJoining {
		t.Fatalf("Acquire during flight = %v, want AcquireJoining", acq.Status)
	}
	if tab.Refs("hero") != 2 {
		t.Errorf("refs after join = %d, want 2", tab.Refs("hero"))
	}

	tab.CompleteLoad("hero", 42, nil)
	<-done
	v, err := tab.Result("hero")
	if err != nil || v != 42 {
		t.Errorf("joiner Result = (%v, %v), want (42, nil)", v, err)
	}

	acq = tab.Acquire("hero")
	if acq.Status != AcquireCached || acq.Value != 42 {
		t.Errorf("post-completion Acquire = %+v, want Cached 42", acq)
	}
}

func TestReleaseRemovesResolvedRecord(t *testing.T) {
	tab := NewHandleTable()
	tab.BeginLoad("hero")
	tab.CompleteLoad("hero", "v", nil)

	action, value := tab.Release("hero")
	if action != ReleaseImmediate {
		t.Fatalf("Release = %v, want ReleaseImmediate", action)
	}
	if value != "v" {
		t.Errorf("released value = %v, want v", value)
	}
	if tab.Len() != 0 {
		t.Errorf("record survived last release, table len = %d", tab.Len())
	}
}

func TestDeferredReleaseWhilePending(t *testing.T) {
	tab := NewHandleTable()
	tab.BeginLoad("hero")

	action, _ := tab.Release("hero")
	if action != ReleaseDeferred {
		t.Fatalf("Release of pending record = %v, want ReleaseDeferred", action)
	}
	// Record must survive until the completion continuation runs.
	if tab.Len() != 1 {
		t.Fatalf("pending record removed by Release, table len = %d", tab.Len())
	}

	releaseNow, released := tab.CompleteLoad("hero", "v", nil)
	if !releaseNow || released != "v" {
		t.Errorf("CompleteLoad = (%v, %v), want (true, v)", releaseNow, released)
	}
	if tab.Len() != 0 {
		t.Errorf("record survived deferred release, table len = %d", tab.Len())
	}
}

func TestReacquireCancelsDeferredRelease(t *testing.T) {
	tab := NewHandleTable()
	tab.BeginLoad("hero")
	tab.Release("hero")

	// A new holder arrives before completion; the deferred release is void.
	acq := tab.Acquire("hero")
	if acq.Status != AcquireJoining {
		t.Fatalf("Acquire = %v, want AcquireJoining", acq.Status)
	}
	releaseNow, _ := tab.CompleteLoad("hero", "v", nil)
	if releaseNow {
		t.Error("CompleteLoad released despite the re-acquired reference")
	}
	if tab.Refs("hero") != 1 {
		t.Errorf("refs = %d, want 1", tab.Refs("hero"))
	}
}

func TestReleaseUnknownKeyIsNoOp(t *testing.T) {
	tab := NewHandleTable()
	action, _ := tab.Release("ghost")
	if action != ReleaseNone {
		t.Errorf("Release of unknown key = %v, want ReleaseNone", action)
	}
	if tab.Len() != 0 {
		t.Errorf("table len = %d, want 0", tab.Len())
	}
}

func TestFailedLoadReleasesNothing(t *testing.T) {
	tab := NewHandleTable()
	tab.BeginLoad("hero")
	tab.CompleteLoad("hero", nil, ErrLoadFailed)

	if _, err := tab.Result("hero"); err == nil {
		t.Error("Result of failed load returned nil error")
	}
	action, _ := tab.Release("hero")
	if action != ReleaseNone {
		t.Errorf("Release of failed record = %v, want ReleaseNone", action)
	}
	if tab.Len() != 0 {
		t.Errorf("failed record survived last release, len = %d", tab.Len())
	}
}

func TestSweepSkipsPendingAndHeldRecords(t *testing.T) {
	tab := NewHandleTable()

	// Held: must survive.
	tab.BeginLoad("held")
	tab.CompleteLoad("held", "h", nil)

	// Pending with deferred release: must survive for the continuation.
	tab.BeginLoad("pending")
	tab.Release("pending")

	if got := tab.Sweep(); len(got) != 0 {
		t.Errorf("Sweep released %v, want nothing", got)
	}
	if tab.Len() != 2 {
		t.Errorf("table len = %d, want 2", tab.Len())
	}
}

func TestProgressFanOut(t *testing.T) {
	tab := NewHandleTable()
	tab.BeginLoad("hero")
	tab.Acquire("hero")

	var a, b []float64
	tab.SubscribeProgress("hero", func(f float64) { a = append(a, f) })
	tab.SubscribeProgress("hero", func(f float64) { b = append(b, f) })

	tab.NotifyProgress("hero", 0.25)
	tab.NotifyProgress("hero", 1.0)

	want := []float64{0.25, 1.0}
	for i, got := range [][]float64{a, b} {
		if len(got) != len(want) {
			t.Fatalf("subscriber %d saw %v, want %v", i, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("subscriber %d saw %v, want %v", i, got, want)
			}
		}
	}

	// Resolved records drop their subscribers.
	tab.CompleteLoad("hero", "v", nil)
	tab.NotifyProgress("hero", 0.5)
	if len(a) != 2 {
		t.Errorf("subscriber notified after completion: %v", a)
	}
}
