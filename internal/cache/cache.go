package cache

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type PutCondition int

const (
	PutAlways PutCondition = iota
	PutIfNoneMatch
)

type PutOptions struct {
	Condition PutCondition
}

func Unconditional() PutOptions {
	return PutOptions{Condition: PutAlways}
}

func IfNoneMatch() PutOptions {
	return PutOptions{Condition: PutIfNoneMatch}
}

// Cache is a keyed document store. Keys are slash-separated with the first
// segment acting as the logical partition (e.g. "shoppinglist/<user>").
type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key, value string, opts PutOptions) error
	Delete(ctx context.Context, key string) error
}

// ListCache additionally enumerates keys under a prefix.
type ListCache interface {
	Cache
	List(ctx context.Context, prefix string) ([]string, error)
}
