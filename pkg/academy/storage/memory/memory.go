// Package memory provides an in-memory academy.BlobStore for development
// and tests. It records every call so tests can assert on call ordering and
// compensation behavior, and it supports injected failures.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campuskit/academy/pkg/academy"
)

// Call records one object store invocation.
type Call struct {
	Op     string // "upload" or "delete"
	Handle string
}

type storedObject struct {
	data     []byte
	mimeType string
}

// Backend is an in-memory implementation of the academy.BlobStore interface
type Backend struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	calls     []Call
	uploadErr error
	deleteErr error
	baseURL   string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]storedObject),
		baseURL: "mem://assets",
	}
}

// Upload stores the bytes under a generated handle within the namespace.
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params academy.UploadParams) (*academy.StoredAsset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uploadErr != nil {
		b.calls = append(b.calls, Call{Op: "upload"})
		return nil, b.uploadErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	handle := params.Namespace + "/" + strings.ReplaceAll(uuid.New().String(), "-", "")
	b.objects[handle] = storedObject{data: data, mimeType: params.MimeType}
	b.calls = append(b.calls, Call{Op: "upload", Handle: handle})

	return &academy.StoredAsset{
		URL:    fmt.Sprintf("%s/%s", b.baseURL, handle),
		Handle: handle,
	}, nil
}

// Delete removes the blob named by handle.
func (b *Backend) Delete(ctx context.Context, handle string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: "delete", Handle: handle})

	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, exists := b.objects[handle]; !exists {
		return errors.New("object not found")
	}
	delete(b.objects, handle)
	return nil
}

// Contains reports whether a blob exists for the handle.
func (b *Backend) Contains(handle string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[handle]
	return ok
}

// Len returns the number of stored blobs.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// HandlesWithPrefix returns the handles of stored blobs under the prefix.
func (b *Backend) HandlesWithPrefix(prefix string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var handles []string
	for h := range b.objects {
		if strings.HasPrefix(h, prefix) {
			handles = append(handles, h)
		}
	}
	return handles
}

// Calls returns the recorded invocations in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// FailUploads makes subsequent uploads fail with err; nil restores normal
// behavior.
func (b *Backend) FailUploads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploadErr = err
}

// FailDeletes makes subsequent deletes fail with err; nil restores normal
// behavior.
func (b *Backend) FailDeletes(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteErr = err
}
