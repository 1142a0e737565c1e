package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aristath/todograph/internal/todo"
)

// answerByCount says yes when there is more than one subtask.
func answerByCount(_ context.Context, _ string, subtasks []*todo.Todo) (bool, error) {
	return len(subtasks) > 1, nil
}

func subtasks(n int) []*todo.Todo {
	todos := make([]*todo.Todo, n)
	for i := range todos {
		todos[i] = todo.Parse("Subtask")
	}
	return todos
}

func TestDecisionChannelConfirm(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dc := NewDecisionChannel(10, answerByCount)
	dc.Start(ctx)
	defer dc.Stop()
	defer cancel()

	yes, err := dc.Confirm(ctx, CascadeQuestion, subtasks(2))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if !yes {
		t.Error("expected yes for two subtasks")
	}

	yes, err = dc.Confirm(ctx, CascadeQuestion, subtasks(1))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if yes {
		t.Error("expected no for one subtask")
	}
}

// Concurrent callers each get the answer to their own question.
func TestDecisionChannelConcurrentCallers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dc := NewDecisionChannel(10, answerByCount)
	dc.Start(ctx)
	defer dc.Stop()
	defer cancel()

	var wg sync.WaitGroup
	for n := 1; n <= 4; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			yes, err := dc.Confirm(ctx, CascadeQuestion, subtasks(n))
			if err != nil {
				t.Errorf("Confirm(%d) failed: %v", n, err)
				return
			}
			if yes != (n > 1) {
				t.Errorf("Confirm(%d) = %v", n, yes)
			}
		}(n)
	}
	wg.Wait()
}

func TestDecisionChannelAnswerError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	boom := errors.New("no terminal")
	dc := NewDecisionChannel(1, func(context.Context, string, []*todo.Todo) (bool, error) {
		return true, boom
	})
	dc.Start(ctx)
	defer dc.Stop()
	defer cancel()

	yes, err := dc.Confirm(ctx, CascadeQuestion, subtasks(2))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if yes {
		t.Error("a failed answer must read as no")
	}
}

func TestDecisionChannelCancelledCaller(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Never answers until the channel's context ends
	dc := NewDecisionChannel(0, func(ctx context.Context, _ string, _ []*todo.Todo) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})
	dc.Start(ctx)
	defer dc.Stop()
	defer cancel()

	askCtx, askCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer askCancel()

	start := time.Now()
	_, err := dc.Confirm(askCtx, CascadeQuestion, subtasks(1))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Confirm took %v after its context expired", elapsed)
	}
}

func TestDecisionChannelStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	dc := NewDecisionChannel(10, answerByCount)
	dc.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		dc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return within 1 second")
	}
}

// Do accepts a DecisionChannel as its decider.
func TestDoWithDecisionChannel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dc := NewDecisionChannel(1, answerByCount)
	dc.Start(ctx)
	defer dc.Stop()
	defer cancel()

	e := projectEngine(t)
	result, err := e.Do(ctx, 1, DoOptions{Decider: dc})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cascaded) != 2 {
		t.Errorf("cascaded %d subtasks, want 2", len(result.Cascaded))
	}
}
