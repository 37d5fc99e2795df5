package parse

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCache(t *testing.T) {

	t.Run("documents are cached", func(t *testing.T) {
		cache := NewDocumentCache(2)

		doc, cached, err := cache.Parse("<p></p>")
		require.NoError(t, err)
		assert.False(t, cached)

		again, cached, err := cache.Parse("<p></p>")
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Same(t, doc, again)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		cache := NewDocumentCache(2)

		doc, cached, err := cache.Parse("<p>")
		assert.Nil(t, doc)
		assert.False(t, cached)
		assert.Equal(t, UnclosedTag, KindOf(err))
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("least recently used entries are evicted", func(t *testing.T) {
		cache := NewDocumentCache(2)

		cache.Put("a", MustParse("a"))
		cache.Put("b", MustParse("b"))

		_, ok := cache.Get("a")
		assert.True(t, ok)

		cache.Put("c", MustParse("c"))
		assert.Equal(t, 2, cache.Len())

		_, ok = cache.Get("b")
		assert.False(t, ok)
		_, ok = cache.Get("a")
		assert.True(t, ok)
	})

	t.Run("invalidation", func(t *testing.T) {
		cache := NewDocumentCache(0)
		cache.Put("a", MustParse("a"))

		cache.InvalidateAllEntries()
		assert.Equal(t, 0, cache.Len())

		cache.Put("a", MustParse("a"))
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("concurrent use", func(t *testing.T) {
		cache := NewDocumentCache(4)
		templates := []string{"a", "<p>{{ b }}</p>", "@if(c)@end", "d"}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					_, _, err := cache.Parse(templates[(i+j)%len(templates)])
					assert.NoError(t, err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 4, cache.Len())
	})
}
