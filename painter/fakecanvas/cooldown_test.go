package fakecanvas

import (
	"testing"
	"time"
)

func TestCooldownStore_FirstTakeAllowedSecondDenied(t *testing.T) {
	s := NewCooldownStore(time.Minute)

	ok, wait := s.Take("alice")
	if !ok {
		t.Fatalf("expected first Take to be allowed")
	}
	if wait != time.Minute {
		t.Fatalf("expected accepted wait to equal the cooldown, got %v", wait)
	}

	ok, wait = s.Take("alice")
	if ok {
		t.Fatalf("expected second immediate Take to be denied (burst=1)")
	}
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("expected remaining wait in (0, 1m], got %v", wait)
	}
}

func TestCooldownStore_UsersAreIndependent(t *testing.T) {
	s := NewCooldownStore(time.Minute)

	if ok, _ := s.Take("alice"); !ok {
		t.Fatalf("expected alice to be allowed")
	}
	if ok, _ := s.Take("bob"); !ok {
		t.Fatalf("expected bob to be allowed regardless of alice")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
}

func TestCooldownStore_DeniedTakeDoesNotConsume(t *testing.T) {
	s := NewCooldownStore(20 * time.Millisecond)

	if ok, _ := s.Take("alice"); !ok {
		t.Fatalf("expected first Take to be allowed")
	}
	for i := 0; i < 5; i++ {
		if ok, _ := s.Take("alice"); ok {
			t.Fatalf("expected Take %d to be denied during cooldown", i)
		}
	}

	time.Sleep(30 * time.Millisecond)
	if ok, _ := s.Take("alice"); !ok {
		t.Fatalf("expected Take to be allowed once the cooldown elapsed")
	}
}

func TestCooldownStore_ZeroCooldownAlwaysAllows(t *testing.T) {
	s := NewCooldownStore(0)
	for i := 0; i < 3; i++ {
		ok, wait := s.Take("alice")
		if !ok || wait != 0 {
			t.Fatalf("expected (true, 0), got (%v, %v)", ok, wait)
		}
	}
}

func TestCooldownStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewCooldownStore(time.Millisecond, WithIdleTTL(2*time.Millisecond), WithCleanupEvery(0))

	s.Take("alice")
	time.Sleep(4 * time.Millisecond)

	s.Cleanup()

	if s.Len() != 0 {
		t.Fatalf("expected idle entry to be removed, got %d entries", s.Len())
	}
}

func TestCooldownStore_IdleTTLNeverShorterThanCooldown(t *testing.T) {
	s := NewCooldownStore(time.Hour, WithIdleTTL(time.Millisecond))

	s.Take("alice")
	time.Sleep(3 * time.Millisecond)
	s.Cleanup()

	if ok, _ := s.Take("alice"); ok {
		t.Fatalf("expected cooldown to survive cleanup while still active")
	}
}
