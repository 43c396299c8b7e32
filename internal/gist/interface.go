package gist

import "context"

// Store is the snippet-store surface the pipeline depends on.
type Store interface {
	List(ctx context.Context) ([]Gist, error)
	Get(ctx context.Context, id string) (*Gist, error)
	Create(ctx context.Context, description string, public bool, files map[string]File) error
	Edit(ctx context.Context, id string, files map[string]File) error
}

var _ Store = (*Client)(nil)
