package engine

import (
	"context"

	"github.com/aristath/todograph/internal/todo"
)

// Decider answers the yes/no question asked before subtasks are completed
// along with their parent.
type Decider interface {
	Confirm(ctx context.Context, question string, subtasks []*todo.Todo) (bool, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, question string, subtasks []*todo.Todo) (bool, error)

// Confirm calls f.
func (f DeciderFunc) Confirm(ctx context.Context, question string, subtasks []*todo.Todo) (bool, error) {
	return f(ctx, question, subtasks)
}

// Always returns a Decider that gives the same answer without asking.
func Always(answer bool) Decider {
	return DeciderFunc(func(context.Context, string, []*todo.Todo) (bool, error) {
		return answer, nil
	})
}

// Question is a pending confirmation on a DecisionChannel.
type Question struct {
	Content    string
	Subtasks   []*todo.Todo
	responseCh chan Answer
}

// Answer is the response to a Question.
type Answer struct {
	Yes   bool
	Error error
}

// DecisionChannel serves confirmations from a single handler goroutine, so
// whatever owns the terminal answers every question in order.
type DecisionChannel struct {
	questionCh chan Question
	answerFn   DeciderFunc
	done       chan struct{}
}

// NewDecisionChannel creates a channel with the given buffer size whose
// questions are answered by answerFn.
func NewDecisionChannel(bufferSize int, answerFn DeciderFunc) *DecisionChannel {
	return &DecisionChannel{
		questionCh: make(chan Question, bufferSize),
		answerFn:   answerFn,
		done:       make(chan struct{}),
	}
}

// Start launches the handler goroutine. It runs until ctx is cancelled.
func (dc *DecisionChannel) Start(ctx context.Context) {
	go dc.handleQuestions(ctx)
}

func (dc *DecisionChannel) handleQuestions(ctx context.Context) {
	defer close(dc.done)

	for {
		select {
		case <-ctx.Done():
			return
		case q := <-dc.questionCh:
			yes, err := dc.answerFn(ctx, q.Content, q.Subtasks)

			select {
			case <-ctx.Done():
				q.responseCh <- Answer{Error: ctx.Err()}
				return
			default:
				q.responseCh <- Answer{Yes: yes, Error: err}
			}
		}
	}
}

// Confirm sends a question to the handler and waits for its answer.
// It respects context cancellation while sending and while waiting.
func (dc *DecisionChannel) Confirm(ctx context.Context, question string, subtasks []*todo.Todo) (bool, error) {
	// Buffered so the handler never blocks on a caller that gave up
	responseCh := make(chan Answer, 1)

	q := Question{
		Content:    question,
		Subtasks:   subtasks,
		responseCh: responseCh,
	}

	select {
	case dc.questionCh <- q:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case answer := <-responseCh:
		if answer.Error != nil {
			return false, answer.Error
		}
		return answer.Yes, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Stop blocks until the handler goroutine has exited.
func (dc *DecisionChannel) Stop() {
	<-dc.done
}
