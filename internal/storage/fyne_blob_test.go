package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFyneBlob_ReadWrite(t *testing.T) {
	blob := NewFyneBlob(test.NewTempApp(t).Storage())
	key := fmt.Sprintf("blob-%d.json", time.Now().UnixNano())

	_, err := blob.Read(key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, blob.Write(key, []byte(`{"a":1}`)))
	require.NoError(t, blob.Write(key, []byte(`{"b":2}`)))

	data, err := blob.Read(key)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))
}

func TestStore_OverFyneStorage(t *testing.T) {
	store := NewStore(NewFyneBlob(test.NewTempApp(t).Storage()), nil)
	store.key = fmt.Sprintf("line-%d.json", time.Now().UnixNano())
	ctx := context.Background()

	require.NoError(t, store.AppendSegment(ctx, segmentFor("2026-10-16", 750)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Stats.TotalDays)
}
