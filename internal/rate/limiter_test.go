package rate

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewMemory(3, time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("1.2.3.4")
		if !ok {
			t.Fatalf("request %d denied under limit", i)
		}
	}
	ok, retry := l.Allow("1.2.3.4")
	if ok {
		t.Error("request over limit allowed")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("retry = %v, want within the window", retry)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewMemory(1, time.Minute)
	if ok, _ := l.Allow("a"); !ok {
		t.Fatal("first key denied")
	}
	if ok, _ := l.Allow("b"); !ok {
		t.Error("second key must have its own window")
	}
	if ok, _ := l.Allow("a"); ok {
		t.Error("first key must be exhausted")
	}
}

func TestWindowResets(t *testing.T) {
	l := NewMemory(1, 10*time.Millisecond)
	if ok, _ := l.Allow("x"); !ok {
		t.Fatal("first request denied")
	}
	if ok, _ := l.Allow("x"); ok {
		t.Fatal("second request within window allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if ok, _ := l.Allow("x"); !ok {
		t.Error("request after window reset denied")
	}
}
