package application

import "sync"

// Result carries one stream's outcome through the join barrier.
type Result[T any] struct {
	Data T
	Err  error
}

// Join runs every fetch concurrently and waits until all of them have
// produced a first result. Each slot fails independently: an error in one
// fetch never cancels or masks its siblings.
func Join[T any](fetchers ...func() (T, error)) []Result[T] {
	results := make([]Result[T], len(fetchers))

	var wg sync.WaitGroup
	wg.Add(len(fetchers))
	for i, fetch := range fetchers {
		go func(i int, fetch func() (T, error)) {
			defer wg.Done()
			data, err := fetch()
			results[i] = Result[T]{Data: data, Err: err}
		}(i, fetch)
	}
	wg.Wait()

	return results
}
