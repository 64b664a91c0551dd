package storage

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	fynestorage "fyne.io/fyne/v2/storage"
)

// FyneBlob stores blobs as files in the app's sandboxed storage root.
type FyneBlob struct {
	root fyne.URI
}

// NewFyneBlob uses the storage root of the given app storage.
func NewFyneBlob(store fyne.Storage) *FyneBlob {
	return &FyneBlob{root: store.RootURI()}
}

// Read returns the blob contents or ErrNotFound.
func (blob *FyneBlob) Read(key string) ([]byte, error) {
	uri, err := fynestorage.Child(blob.root, key)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", key, err)
	}
	exists, err := fynestorage.Exists(uri)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	reader, err := fynestorage.Reader(uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the blob contents.
func (blob *FyneBlob) Write(key string, data []byte) error {
	uri, err := fynestorage.Child(blob.root, key)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", key, err)
	}
	writer, err := fynestorage.Writer(uri)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}
