package pagecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	cache, err := Open(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	_, err = cache.Get(ctx, "https://example.org/a")
	require.ErrorIs(t, err, ErrMiss)

	err = cache.Put(ctx, "https://example.org/a", []byte("<html>first</html>"))
	require.NoError(t, err)

	body, err := cache.Get(ctx, "https://example.org/a")
	require.NoError(t, err)
	require.Equal(t, "<html>first</html>", string(body))

	// a re-fetch replaces the stored body
	err = cache.Put(ctx, "https://example.org/a", []byte("<html>second</html>"))
	require.NoError(t, err)

	body, err = cache.Get(ctx, "https://example.org/a")
	require.NoError(t, err)
	require.Equal(t, "<html>second</html>", string(body))
}
