package core

import (
	"testing"
	"time"

	"github.com/frcscout/picklist/team"
)

func TestMemoryCacheReserveFirstWriter(t *testing.T) {
	c := NewMemoryCache(time.Hour)

	if !c.Reserve("fp1") {
		t.Fatal("expected first Reserve to succeed")
	}
	if c.Reserve("fp1") {
		t.Error("expected second Reserve on same key to report not-first")
	}
}

func TestMemoryCacheLookupMiss(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	if _, ok := c.Lookup("nope"); ok {
		t.Error("expected Lookup miss on empty cache")
	}
}

func TestMemoryCachePublishThenLookup(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.Reserve("fp1")

	result := &team.RankingResult{Status: team.StatusSuccess, CacheKey: "fp1"}
	c.Publish("fp1", team.CacheEntry{Status: team.CacheFinal, Result: result})

	entry, ok := c.Lookup("fp1")
	if !ok {
		t.Fatal("expected Lookup hit after Publish")
	}
	if entry.Status != team.CacheFinal {
		t.Errorf("expected CacheFinal, got %v", entry.Status)
	}
	if entry.Result.CacheKey != "fp1" {
		t.Errorf("expected cache key fp1, got %v", entry.Result.CacheKey)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Reserve("fp1")
	c.Publish("fp1", team.CacheEntry{Status: team.CacheFinal})

	fakeNow = fakeNow.Add(time.Hour)
	if _, ok := c.Lookup("fp1"); ok {
		t.Error("expected Lookup to report expired entry as a miss")
	}
}

func TestMemoryCacheNoExpiryWhenTTLNonPositive(t *testing.T) {
	c := NewMemoryCache(0)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Reserve("fp1")
	c.Publish("fp1", team.CacheEntry{Status: team.CacheFinal})

	fakeNow = fakeNow.Add(365 * 24 * time.Hour)
	if _, ok := c.Lookup("fp1"); !ok {
		t.Error("expected non-positive TTL to disable expiry")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.Reserve("fp1")
	c.Delete("fp1")

	if _, ok := c.Lookup("fp1"); ok {
		t.Error("expected Lookup miss after Delete")
	}
	if !c.Reserve("fp1") {
		t.Error("expected Reserve to succeed again after Delete")
	}
}

func TestMemoryCacheReserveAfterExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Reserve("fp1")
	fakeNow = fakeNow.Add(time.Hour)

	if !c.Reserve("fp1") {
		t.Error("expected Reserve to succeed once prior entry has expired")
	}
}
