package password

import "context"

// Future is the deferred result of a KDF call started on its own goroutine.
//
// The computation always runs to completion; a context passed to [Future.Wait] only stops
// the wait.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func start[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is ready or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// HashAsync starts [PBKDF2.Hash] off the calling goroutine.
func (p *PBKDF2) HashAsync(password string) *Future[string] {
	return start(func() (string, error) {
		return p.Hash(password)
	})
}

// VerifyAsync starts [PBKDF2.Verify] off the calling goroutine.
func (p *PBKDF2) VerifyAsync(password, stored string) *Future[bool] {
	return start(func() (bool, error) {
		return p.Verify(password, stored), nil
	})
}
