package updatewkr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model/types"
)

type fakeProcessor struct {
	calls [][]int
	err   error
}

func (f *fakeProcessor) ProcessRounds(ctx context.Context, rounds []int) (*types.UpdateResponse, error) {
	f.calls = append(f.calls, rounds)
	if f.err != nil {
		return &types.UpdateResponse{Applied: []int{}, Skipped: []int{}}, f.err
	}
	return &types.UpdateResponse{Applied: rounds, Skipped: []int{}, AnalyzedFor: rounds[len(rounds)-1]}, nil
}

func TestHandle(t *testing.T) {
	p := &fakeProcessor{}
	w := New(p, time.Second)

	err := w.Handle(context.Background(), []byte(`{"taskId":"c1","rounds":[1201,1202],"createdAt":1}`))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1201, 1202}}, p.calls)
}

func TestHandleRejectsBadPayloads(t *testing.T) {
	p := &fakeProcessor{}
	w := New(p, time.Second)

	assert.Error(t, w.Handle(context.Background(), []byte(`{`)))
	assert.ErrorIs(t, w.Handle(context.Background(), []byte(`{"taskId":"c2","rounds":[]}`)), ErrEmptyTask)
	assert.Empty(t, p.calls)
}

func TestHandleReportsFailure(t *testing.T) {
	failure := &carryover.RoundFailedError{Round: 7, Err: &carryover.MissingPredecessorError{Round: 7}}
	w := New(&fakeProcessor{err: failure}, time.Second)

	err := w.Handle(context.Background(), []byte(`{"taskId":"c3","rounds":[7]}`))
	var rf *carryover.RoundFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, 7, rf.Round)
}

func TestConsumeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := New(&fakeProcessor{}, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Consume(ctx, make(chan *nats.Msg))
	}()
	cancel()
	<-done
}
