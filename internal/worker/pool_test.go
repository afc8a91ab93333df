package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

type fakeRenderer struct {
	mu     sync.Mutex
	frames []int
	fail   map[int]bool
}

func (r *fakeRenderer) RenderFrame(ctx context.Context, frame int) (string, error) {
	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()
	if r.fail[frame] {
		return "", errors.New("render failed")
	}
	return fmt.Sprintf("frame_%05d.png", frame), nil
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Frame: i}
	}
	return tasks
}

func TestPoolRunsAllTasks(t *testing.T) {
	r := &fakeRenderer{}
	pool := New(Config{Workers: 4, Renderer: r})

	results := pool.Run(context.Background(), makeTasks(20))
	if len(results) != 20 {
		t.Fatalf("got %d results, want 20", len(results))
	}

	seen := map[int]bool{}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("frame %d failed: %v", res.Task.Frame, res.Err)
		}
		if want := fmt.Sprintf("frame_%05d.png", res.Task.Frame); res.Path != want {
			t.Errorf("frame %d path = %q, want %q", res.Task.Frame, res.Path, want)
		}
		if seen[res.Task.Frame] {
			t.Errorf("frame %d rendered twice", res.Task.Frame)
		}
		seen[res.Task.Frame] = true
	}
	for i := 0; i < 20; i++ {
		if !seen[i] {
			t.Errorf("frame %d never rendered", i)
		}
	}
}

func TestPoolReportsFailures(t *testing.T) {
	r := &fakeRenderer{fail: map[int]bool{3: true, 7: true}}

	var mu sync.Mutex
	var lastCompleted, lastFailed int
	pool := New(Config{Workers: 2, Renderer: r, OnProgress: func(completed, total, failed int) {
		mu.Lock()
		lastCompleted, lastFailed = completed, failed
		mu.Unlock()
	}})

	results := pool.Run(context.Background(), makeTasks(10))

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
		}
	}
	if failures != 2 {
		t.Errorf("failures = %d, want 2", failures)
	}
	mu.Lock()
	defer mu.Unlock()
	if lastCompleted != 10 || lastFailed != 2 {
		t.Errorf("final progress = %d completed, %d failed", lastCompleted, lastFailed)
	}
}

func TestPoolEmptyTasks(t *testing.T) {
	pool := New(Config{Workers: 2, Renderer: &fakeRenderer{}})
	if results := pool.Run(context.Background(), nil); results != nil {
		t.Errorf("empty task list returned %v", results)
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	pool := New(Config{Workers: 0, Renderer: &fakeRenderer{}})
	if pool.workers != 1 {
		t.Errorf("workers = %d, want 1", pool.workers)
	}
}

func TestPoolCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeRenderer{}
	pool := New(Config{Workers: 2, Renderer: r})
	results := pool.Run(ctx, makeTasks(50))

	if len(results) != 50 {
		t.Fatalf("got %d results, want 50", len(results))
	}
	cancelled := 0
	for _, res := range results {
		if errors.Is(res.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("no task observed the cancelled context")
	}
}

func TestProgressSummary(t *testing.T) {
	p := NewProgress(10, false)
	p.Update(10, 10, 2)

	s := p.Summary()
	if !strings.Contains(s, "Rendered 8/10 frames") {
		t.Errorf("summary = %q", s)
	}
	if !strings.Contains(s, "(2 failed)") {
		t.Errorf("summary = %q", s)
	}
}

func TestProgressCallbackFeedsPool(t *testing.T) {
	p := NewProgress(5, false)
	pool := New(Config{Workers: 2, Renderer: &fakeRenderer{}, OnProgress: p.Callback()})
	pool.Run(context.Background(), makeTasks(5))

	if !strings.Contains(p.Summary(), "Rendered 5/5 frames") {
		t.Errorf("summary = %q", p.Summary())
	}
}
