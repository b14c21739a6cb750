package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

type entry struct {
	Round    int
	Numbers  []int
	Prize    null.Int
	DrawDate time.Time
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func backends(t *testing.T) map[string]*redis.Client {
	_, client := newRedis(t)
	return map[string]*redis.Client{
		"memory": nil,
		"redis":  client,
	}
}

func TestSet(t *testing.T) {
	for name, client := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSet[entry](client, "draw#round")
			want := entry{
				Round:    1100,
				Numbers:  []int{1, 2, 3, 4, 5, 6},
				Prize:    null.IntFrom(2_000_000_000),
				DrawDate: time.Date(2024, time.January, 6, 20, 45, 0, 0, time.UTC),
			}

			var got entry
			assert.ErrorIs(t, s.Get("1100", &got), ErrNotFound)

			require.NoError(t, s.Set("1100", want, time.Hour))
			require.NoError(t, s.Get("1100", &got))
			assert.Equal(t, want.Round, got.Round)
			assert.Equal(t, want.Numbers, got.Numbers)
			assert.Equal(t, want.Prize, got.Prize)
			assert.True(t, want.DrawDate.Equal(got.DrawDate))

			require.NoError(t, s.Set("1101", entry{Round: 1101}, time.Hour))
			require.NoError(t, s.Delete("1100"))
			assert.ErrorIs(t, s.Get("1100", &got), ErrNotFound)
			require.NoError(t, s.Get("1101", &got))
			assert.Equal(t, 1101, got.Round)

			require.NoError(t, s.Flush())
			assert.ErrorIs(t, s.Get("1101", &got), ErrNotFound)
		})
	}
}

func TestSetMutexGetSet(t *testing.T) {
	for name, client := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSet[[]int](client, "combos")

			var calls atomic.Int32
			valueFunc := func() ([]int, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return []int{4, 5, 6}, nil
			}

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					var got []int
					_, err := s.MutexGetSet("3", &got, valueFunc, time.Hour)
					assert.NoError(t, err)
					assert.Equal(t, []int{4, 5, 6}, got)
				}()
			}
			wg.Wait()
			assert.EqualValues(t, 1, calls.Load())

			var got []int
			calculated, err := s.MutexGetSet("3", &got, valueFunc, time.Hour)
			require.NoError(t, err)
			assert.False(t, calculated)

			// errors are returned and never cached
			boom := fmt.Errorf("boom")
			calculated, err = s.MutexGetSet("4", &got, func() ([]int, error) { return nil, boom }, time.Hour)
			assert.True(t, calculated)
			assert.ErrorIs(t, err, boom)
			assert.ErrorIs(t, s.Get("4", &got), ErrNotFound)
		})
	}
}

func TestSingular(t *testing.T) {
	for name, client := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSingular[[]entry](client, "draws")

			var got []entry
			assert.ErrorIs(t, s.Get(&got), ErrNotFound)

			var calls int
			valueFunc := func() ([]entry, error) {
				calls++
				return []entry{{Round: 1}, {Round: 2}}, nil
			}
			require.NoError(t, s.MutexGetSet(&got, valueFunc, time.Hour))
			require.NoError(t, s.MutexGetSet(&got, valueFunc, time.Hour))
			assert.Equal(t, 1, calls)
			require.Len(t, got, 2)
			assert.Equal(t, 2, got[1].Round)

			require.NoError(t, s.Delete())
			assert.ErrorIs(t, s.Get(&got), ErrNotFound)
		})
	}
}

func TestRedisSharedAcrossInstances(t *testing.T) {
	mr, client := newRedis(t)

	// two processes sharing one redis
	server := NewSingular[int](client, "carryoverSummary")
	worker := NewSingular[int](client, "carryoverSummary")
	serverSet := NewSet[int](client, "carryoverCaseStats")
	workerSet := NewSet[int](client, "carryoverCaseStats")

	require.NoError(t, server.Set(1, time.Hour))
	require.NoError(t, serverSet.Set("3|false|false", 1, time.Hour))

	require.NoError(t, worker.Delete())
	require.NoError(t, workerSet.Flush())

	var got int
	assert.ErrorIs(t, server.Get(&got), ErrNotFound)
	assert.ErrorIs(t, serverSet.Get("3|false|false", &got), ErrNotFound)

	// flushing one set leaves other keyspaces alone
	other := NewSet[int](client, "combos")
	require.NoError(t, other.Set("1", 7, time.Hour))
	require.NoError(t, serverSet.Flush())
	require.NoError(t, other.Get("1", &got))
	assert.Equal(t, 7, got)

	// entries expire server side
	require.NoError(t, server.Set(2, time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, server.Get(&got), ErrNotFound)
}

func TestRedisFlushManyKeys(t *testing.T) {
	mr, client := newRedis(t)
	s := NewSet[int](client, "draw#round")

	n := flushBatchSize*2 + 17
	for i := 0; i < n; i++ {
		require.NoError(t, s.Set(fmt.Sprint(i), i, 0))
	}
	require.NoError(t, s.Flush())
	assert.Empty(t, mr.Keys())
}
