package client

// ListPhase distinguishes a list that has not loaded yet, one that
// loaded (possibly empty), and one whose fetch failed. The web client
// collapsed empty and failed into one rendered state; keeping them
// separate here lets the UI decide how much to reveal.
type ListPhase int

const (
	ListLoading ListPhase = iota
	ListLoaded
	ListFailed
)

type ListResult[T any] struct {
	Phase ListPhase
	Items []T
	Err   error
}

func Loading[T any]() ListResult[T] {
	return ListResult[T]{Phase: ListLoading}
}

func Loaded[T any](items []T) ListResult[T] {
	return ListResult[T]{Phase: ListLoaded, Items: items}
}

func Failed[T any](err error) ListResult[T] {
	return ListResult[T]{Phase: ListFailed, Err: err}
}
