package calcwkr

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/lottostats/backend/internal/app/appconfig"
)

type fakeRefresher struct {
	lotto   atomic.Int32
	pension atomic.Int32
	fail    bool
}

func (f *fakeRefresher) RefreshLotto(ctx context.Context, force bool) (bool, error) {
	f.lotto.Add(1)
	if f.fail {
		return false, errors.New("boom")
	}
	return true, nil
}

func (f *fakeRefresher) RefreshPension(ctx context.Context, force bool) (bool, error) {
	f.pension.Add(1)
	return false, nil
}

func testConfig() *appconfig.Config {
	conf := &appconfig.Config{}
	conf.WorkerSeparation = time.Millisecond
	conf.WorkerInterval = 5 * time.Millisecond
	conf.WorkerTimeout = time.Second
	return conf
}

func TestWorkerRunsBatchesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &fakeRefresher{}
	w := New(testConfig(), r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return w.Count() >= 2 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, int(r.lotto.Load()), 2)
	assert.GreaterOrEqual(t, int(r.pension.Load()), 2)
}

func TestWorkerContinuesAfterFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &fakeRefresher{fail: true}
	w := New(testConfig(), r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return w.Count() >= 1 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, int(r.pension.Load()), 1)
}
