package ports

import "context"

// Publisher sends one encoded record to the fixed message-stream topic.
type Publisher interface {
	Publish(ctx context.Context, value []byte) error
	Close() error
}

// Subscriber yields messages from the fixed topic in partition order,
// blocking until one is available or the context is cancelled.
type Subscriber interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}
