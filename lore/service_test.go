package lore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const validJSON = `{"description":"Relay dishes turn toward a new signal. Static crawls across every channel.","secret":"Someone is answering.","status":"upgrading"}`

// TestService_NoCredential tests the short-circuit with zero generator calls
func TestService_NoCredential(t *testing.T) {
	svc := NewService(nil)

	l := svc.Lore(context.Background(), spire)

	if l.Status != StatusUnknown {
		t.Errorf("Expected unknown status, got %s", l.Status)
	}
	if !strings.Contains(l.Description, spire.BaseDescription) {
		t.Errorf("Expected description to contain the base description, got %q", l.Description)
	}
	if !strings.HasPrefix(l.Description, "Archive uplink not configured") {
		t.Errorf("Expected the missing-credential wording, got %q", l.Description)
	}
	if svc.Calls() != 0 {
		t.Errorf("Expected zero generator calls, got %d", svc.Calls())
	}
	if svc.Configured() {
		t.Error("Expected service to report no generator")
	}
}

// TestService_GeneratorThrows tests the generic fallback on failure
func TestService_GeneratorThrows(t *testing.T) {
	var calls int32
	svc := NewService(GeneratorFunc(func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("503 service unavailable")
	}))

	l := svc.Lore(context.Background(), spire)

	if l.Status != StatusUnknown {
		t.Errorf("Expected unknown status, got %s", l.Status)
	}
	if l.Secret != CorruptionNotice {
		t.Errorf("Expected corruption notice, got %q", l.Secret)
	}
	if !strings.HasPrefix(l.Description, "Archives offline. Displaying cached data: ") {
		t.Errorf("Expected generic fallback, got %q", l.Description)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected one attempt, got %d", calls)
	}
}

// TestService_Malformed tests that unusable model output falls back
func TestService_Malformed(t *testing.T) {
	svc := NewService(GeneratorFunc(func(context.Context, string) (string, error) {
		return `{"description":"ok","secret":"ok","status":"on fire"}`, nil
	}))

	if l := svc.Lore(context.Background(), spire); l.Status != StatusUnknown || l.Secret != CorruptionNotice {
		t.Errorf("Expected fallback, got %+v", l)
	}
}

// TestService_Success tests a generated record passes through
func TestService_Success(t *testing.T) {
	var prompt string
	svc := NewService(GeneratorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return validJSON, nil
	}))

	l := svc.Lore(context.Background(), spire)

	if l.Status != StatusUpgrading || l.Secret != "Someone is answering." {
		t.Errorf("Unexpected lore %+v", l)
	}
	if !strings.Contains(prompt, spire.Name) {
		t.Errorf("Expected prompt to name the building, got %q", prompt)
	}
}

// TestService_Timeout tests that a slow generator is cut off
func TestService_Timeout(t *testing.T) {
	svc := NewService(GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithTimeout(10*time.Millisecond))

	start := time.Now()
	l := svc.Lore(context.Background(), spire)

	if l.Status != StatusUnknown {
		t.Errorf("Expected fallback after timeout, got %+v", l)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected a prompt timeout, took %v", elapsed)
	}
}

// TestService_Coalesces tests that concurrent requests share one call
func TestService_Coalesces(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	var calls int32

	svc := NewService(GeneratorFunc(func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return validJSON, nil
	}))

	const n = 5
	var wg sync.WaitGroup
	results := make([]Lore, n)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = svc.Lore(context.Background(), spire)
	}()
	<-entered

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Lore(context.Background(), spire)
		}(i)
	}

	// give the followers time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got < 1 || got > n {
		t.Fatalf("Expected between 1 and %d calls, got %d", n, got)
	}
	if svc.Calls() != int64(atomic.LoadInt32(&calls)) {
		t.Errorf("Expected Calls() to match, got %d", svc.Calls())
	}
	for i, l := range results {
		if l.Status != StatusUpgrading {
			t.Errorf("Result %d: expected generated lore, got %+v", i, l)
		}
	}
}

// TestService_CoalescedCallerCancel tests that one caller going away does not
// fail the others sharing its call
func TestService_CoalescedCallerCancel(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)

	svc := NewService(GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-release:
			return validJSON, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}))

	first, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	var leader, follower Lore
	wg.Add(2)
	go func() {
		defer wg.Done()
		leader = svc.Lore(first, spire)
	}()
	<-entered
	go func() {
		defer wg.Done()
		follower = svc.Lore(context.Background(), spire)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if follower.Status != StatusUpgrading {
		t.Errorf("Expected generated lore for the live caller, got %+v", follower)
	}
	if leader.Status != StatusUpgrading {
		t.Errorf("Expected the shared result for the cancelled caller, got %+v", leader)
	}
}
