package unsplash

import "context"

// ClientInterface is the image lookup used by the content generator.
type ClientInterface interface {
	SearchImage(ctx context.Context, term string) (string, error)
}

var _ ClientInterface = (*Client)(nil)
