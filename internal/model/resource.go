package model

// Status tags a Resource.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Resource wraps an asynchronous result. Success carries Data, Error carries Message,
// Loading carries neither and is only ever emitted ahead of a terminal value.
type Resource[T any] struct {
	Status  Status
	Data    T
	Message string
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

func Error[T any](message string) Resource[T] {
	return Resource[T]{Status: StatusError, Message: message}
}

// IsTerminal reports whether r is a Success or an Error.
func (r Resource[T]) IsTerminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusError
}
