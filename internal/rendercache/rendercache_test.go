package rendercache

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "renders.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTest(t)
	png := []byte{0x89, 0x50, 0x4E, 0x47, 1, 2, 3}

	if err := c.Put("s=abc&d=0.50", png); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := c.Get("s=abc&d=0.50")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, png) {
		t.Errorf("Get returned %v, want %v", got, png)
	}
}

func TestGetMiss(t *testing.T) {
	c := openTest(t)
	if _, err := c.Get("s=missing"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get on empty cache = %v, want ErrMiss", err)
	}
}

func TestPutReplaces(t *testing.T) {
	c := openTest(t)
	if err := c.Put("k", []byte("old")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Put("k", []byte("new")); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := c.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get = %q, want the replacement", got)
	}
	n, err := c.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Len = %d, want 1 after replace", n)
	}
}

func TestLen(t *testing.T) {
	c := openTest(t)
	n, err := c.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("empty cache Len = %d", n)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Put(k, []byte(k)); err != nil {
			t.Fatalf("Put %q failed: %v", k, err)
		}
	}
	n, err = c.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Len = %d, want 3", n)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "renders.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Put("k", []byte("persisted")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c2.Close()
	got, err := c2.Get("k")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get = %q", got)
	}
}
