package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentalLockerMutualExclusion(t *testing.T) {
	locker := newRentalLocker()

	const goroutines = 50
	const increments = 100

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				locker.Lock("rental-a")
				counter++
				locker.Unlock("rental-a")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*increments, counter)
}

func TestRentalLockerIndependentKeys(t *testing.T) {
	locker := newRentalLocker()

	locker.Lock("rental-a")

	// A different rental's lock must not block.
	done := make(chan struct{})
	go func() {
		locker.Lock("rental-b")
		locker.Unlock("rental-b")
		close(done)
	}()
	<-done

	locker.Unlock("rental-a")
}

func TestRentalLockerCleansUpEntries(t *testing.T) {
	locker := newRentalLocker()

	locker.Lock("rental-a")
	locker.Unlock("rental-a")
	locker.Lock("rental-b")
	locker.Unlock("rental-b")

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.locks, "released locks must not linger in the map")
}
