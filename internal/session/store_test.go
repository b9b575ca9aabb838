package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetGetDelete(t *testing.T) {
	s := NewStore[int]()

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", 42)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, s.Has("a"))

	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", i%10)
			s.Set(key, i)
			s.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, s.Len())
}

func TestDedupEvictsOldest(t *testing.T) {
	d := NewDedup(2)

	assert.False(t, d.Seen("m1"))
	assert.True(t, d.Seen("m1"))
	assert.False(t, d.Seen("m2"))
	assert.False(t, d.Seen("m3")) // evicts m1

	assert.False(t, d.Seen("m1"))
	assert.True(t, d.Seen("m3"))
}

func TestDedupIgnoresEmptyID(t *testing.T) {
	d := NewDedup(2)
	assert.False(t, d.Seen(""))
	assert.False(t, d.Seen(""))
}
