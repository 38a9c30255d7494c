package config

import "testing"

func TestEnvIntFallback(t *testing.T) {
	t.Setenv("LOCO_TEST_KEY", "not-a-number")
	if v := envInt("LOCO_TEST_KEY", 42, 0, 100); v != 42 {
		t.Fatalf("got %d want 42", v)
	}
	t.Setenv("LOCO_TEST_KEY", "500")
	if v := envInt("LOCO_TEST_KEY", 42, 0, 100); v != 42 {
		t.Fatalf("out of range should fall back: got %d want 42", v)
	}
	t.Setenv("LOCO_TEST_KEY", "17")
	if v := envInt("LOCO_TEST_KEY", 42, 0, 100); v != 17 {
		t.Fatalf("got %d want 17", v)
	}
}

func TestSnapshotFrozenAfterFirstGet(t *testing.T) {
	resetForTest()
	t.Setenv("LOCO_LZ_CHAIN_DEPTH", "16")
	s1 := Get()
	if s1.LZChainDepth != 16 {
		t.Fatalf("got %d want 16", s1.LZChainDepth)
	}
	t.Setenv("LOCO_LZ_CHAIN_DEPTH", "99")
	s2 := Get()
	if s2.LZChainDepth != 16 {
		t.Fatalf("snapshot should not change after first read: got %d", s2.LZChainDepth)
	}
	resetForTest()
}
