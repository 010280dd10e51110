// Package settings persists small configuration items as a unique key/value
// store. Values are not themselves sensitive.
package settings

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
