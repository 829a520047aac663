// Package storage archives exported documents so the exact rendered copy can
// be re-downloaded later without re-rendering.
package storage

import "io"

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
