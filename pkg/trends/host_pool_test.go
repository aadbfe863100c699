package trends

import (
	"math"
	"sync"
	"testing"
)

func TestHostPool_RoundRobin(t *testing.T) {
	pool := NewHostPool("https://a.example/, https://b.example ,https://c.example")

	if pool.Size() != 3 {
		t.Fatalf("Expected 3 hosts, got %d", pool.Size())
	}
	expected := []string{"https://a.example", "https://b.example", "https://c.example", "https://a.example"}
	for i, want := range expected {
		if got := pool.Next(); got != want {
			t.Errorf("Call %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestHostPool_SingleAndEmpty(t *testing.T) {
	single := NewHostPool("https://trends.google.com")
	for i := 0; i < 3; i++ {
		if got := single.Next(); got != "https://trends.google.com" {
			t.Errorf("Expected single host, got %s", got)
		}
	}

	empty := NewHostPool(" , ")
	if empty.Size() != 0 || empty.Next() != "" {
		t.Errorf("Expected empty pool, got %v", empty.Hosts())
	}
}

func TestHostPool_OverflowStaysInRange(t *testing.T) {
	pool := NewHostPool("https://a.example,https://b.example,https://c.example")
	pool.current = math.MaxInt64 - 1

	for i := 0; i < 10; i++ {
		if got := pool.Next(); got == "" {
			t.Fatalf("Expected host after overflow, got empty string on call %d", i)
		}
	}
}

func TestHostPool_Concurrent(t *testing.T) {
	pool := NewHostPool("https://a.example,https://b.example")
	counts := make(map[string]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			host := pool.Next()
			mu.Lock()
			counts[host]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counts["https://a.example"] != 50 || counts["https://b.example"] != 50 {
		t.Errorf("Expected even distribution, got %v", counts)
	}
}
