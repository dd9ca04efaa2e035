package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	params := url.Values{"project": {"netbeans"}, "duration": {"60d"}}

	_, ok := c.Get("downloads", params)
	assert.False(t, ok)

	c.Put("downloads", params, []byte(`{"a":1}`))

	payload, ok := c.Get("downloads", url.Values{"duration": {"60d"}, "project": {"netbeans"}, "uri": {""}})
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), payload)

	_, ok = c.Get("downloads", url.Values{"project": {"httpd"}, "duration": {"60d"}})
	assert.False(t, ok, "different fetch parameters miss")

	_, ok = c.Get("mail", params)
	assert.False(t, ok)
}

func TestMemoryCache_PutReplaces(t *testing.T) {
	c := NewMemoryCache()
	c.Put("builds", url.Values{"hours": {"24"}}, []byte("old"))
	c.Put("builds", url.Values{"hours": {"168"}}, []byte("new"))

	_, ok := c.Get("builds", url.Values{"hours": {"24"}})
	assert.False(t, ok)

	payload, ok := c.Get("builds", url.Values{"hours": {"168"}})
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), payload)

	c.Invalidate("builds")
	_, ok = c.Get("builds", url.Values{"hours": {"168"}})
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "a=1&b=2", Key(url.Values{"b": {"2"}, "a": {"1"}, "c": {""}}))
	assert.Equal(t, "", Key(nil))
}
