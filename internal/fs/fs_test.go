package fs

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFS_ReadDirAndRemoveAll(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/data/b.log", []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/data/a.log", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/data/sub/nested.log", []byte("n"), 0o644))

	f := New(mem)

	infos, err := f.ReadDir("/data")
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	assert.Equal(t, []string{"a.log", "b.log", "sub"}, names)

	require.NoError(t, f.RemoveAll(context.Background(), "/data/sub"))
	_, err = f.Stat("/data/sub/nested.log")
	assert.True(t, os.IsNotExist(err))

	_, err = f.ReadDir("/missing")
	assert.Error(t, err)
}

func TestRetry(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	defer func() { retryBase = old }()

	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), "remove", func() error {
			calls++
			if calls < 3 {
				return syscall.EBUSY
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error stops at once", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), "remove", func() error {
			calls++
			return os.ErrPermission
		})
		assert.ErrorIs(t, err, os.ErrPermission)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), "remove", func() error {
			calls++
			return syscall.EAGAIN
		})
		assert.ErrorIs(t, err, syscall.EAGAIN)
		assert.Equal(t, maxAttempts, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retry(ctx, "remove", func() error { return errors.New("unreachable") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
