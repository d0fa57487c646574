package services

import "time"

type outcome[T any] struct {
	value T
	err   error
}

// simulate stands in for a backend round trip: fn runs once delay has passed,
// on the timer's goroutine, and its result is delivered on the returned
// channel. Once started it always completes; there is no cancellation.
func simulate[T any](delay time.Duration, fn func() (T, error)) <-chan outcome[T] {
	done := make(chan outcome[T], 1)
	time.AfterFunc(delay, func() {
		v, err := fn()
		done <- outcome[T]{value: v, err: err}
	})
	return done
}
