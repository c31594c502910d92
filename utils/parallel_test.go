package utils

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestRunBatches(t *testing.T) {
	t.Run("every item runs once", func(t *testing.T) {
		var mu sync.Mutex
		seen := map[int]int{}
		var progress [][2]int
		err := RunBatches(10, 4, func(i int) error {
			mu.Lock()
			defer mu.Unlock()
			seen[i]++
			return nil
		}, func(done, total int) {
			progress = append(progress, [2]int{done, total})
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(seen), test.ShouldEqual, 10)
		for i := 0; i < 10; i++ {
			test.That(t, seen[i], test.ShouldEqual, 1)
		}
		test.That(t, progress, test.ShouldResemble, [][2]int{{4, 10}, {8, 10}, {10, 10}})
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		var inFlight, maxInFlight atomic.Int32
		err := RunBatches(50, 3, func(i int) error {
			cur := inFlight.Add(1)
			for {
				prev := maxInFlight.Load()
				if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}
			inFlight.Add(-1)
			return nil
		}, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, int(maxInFlight.Load()), test.ShouldBeLessThanOrEqualTo, 3)
	})

	t.Run("nothing to do", func(t *testing.T) {
		called := false
		err := RunBatches(0, 4, func(i int) error {
			called = true
			return nil
		}, func(done, total int) { called = true })
		test.That(t, err, test.ShouldBeNil)
		test.That(t, called, test.ShouldBeFalse)
	})

	t.Run("default pool size", func(t *testing.T) {
		test.That(t, DefaultPoolSize(), test.ShouldBeGreaterThanOrEqualTo, 2)
		var count atomic.Int32
		test.That(t, RunBatches(5, 0, func(i int) error {
			count.Add(1)
			return nil
		}, nil), test.ShouldBeNil)
		test.That(t, int(count.Load()), test.ShouldEqual, 5)
	})

	t.Run("errors stop dispatch", func(t *testing.T) {
		var count atomic.Int32
		bad := errors.New("bad")
		err := RunBatches(20, 5, func(i int) error {
			count.Add(1)
			if i == 2 {
				return bad
			}
			return nil
		}, nil)
		test.That(t, errors.Is(err, bad), test.ShouldBeTrue)
		test.That(t, int(count.Load()), test.ShouldEqual, 5)
	})

	t.Run("panics are surfaced", func(t *testing.T) {
		batches := 0
		err := RunBatches(8, 4, func(i int) error {
			if i == 5 {
				panic("boom")
			}
			return nil
		}, func(done, total int) { batches++ })
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "boom")
		test.That(t, err.Error(), test.ShouldContainSubstring, "item 5")
		test.That(t, batches, test.ShouldEqual, 2)
	})
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1+1e-9, 1e-8), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-8), test.ShouldBeFalse)
	test.That(t, Square(3), test.ShouldEqual, 9.)
}
