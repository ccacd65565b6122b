package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_GetIsCaseInsensitive(t *testing.T) {
	h := Headers{}
	h.Set("X-Forwarded-For", "192.0.2.1")

	assert.Equal(t, "192.0.2.1", h.Get("x-forwarded-for"))
	assert.Equal(t, "192.0.2.1", h.Get("X-FORWARDED-FOR"))
	assert.Equal(t, "", h.Get("x-other"))
}

func TestHeaders_SetReplacesAllValues(t *testing.T) {
	h := Headers{}
	h.Add("cookie", "a=1")
	h.Add("Cookie", "b=2")
	require.Len(t, h.Values("cookie"), 2)

	h.Set("cookie", "c=3")

	assert.Equal(t, []string{"c=3"}, h.Values("cookie"))
}

func TestHeaders_AddPreservesCasingAndOrder(t *testing.T) {
	h := Headers{}
	h.Add("Cookie", "a=1")
	h.Add("cookie", "b=2")

	entries := h["cookie"]
	require.Len(t, entries, 2)
	assert.Equal(t, "Cookie", entries[0].Key)
	assert.Equal(t, "a=1", entries[0].Value)
	assert.Equal(t, "cookie", entries[1].Key)
	assert.Equal(t, "b=2", entries[1].Value)
}

func TestHeaders_Del(t *testing.T) {
	h := Headers{}
	h.Set("X-Auth-Email", "user@example.com")
	h.Del("x-auth-email")

	assert.Equal(t, "", h.Get("X-Auth-Email"))
	assert.Nil(t, h.Values("x-auth-email"))
}

func TestHeaders_CloneIsIndependent(t *testing.T) {
	h := Headers{}
	h.Set("host", "d111.cloudfront.net")

	clone := h.Clone()
	clone.Set("host", "changed.example.com")
	clone.Add("via", "edge")

	assert.Equal(t, "d111.cloudfront.net", h.Get("host"))
	assert.Equal(t, "", h.Get("via"))
}

func TestResult_ExactlyOneBranch(t *testing.T) {
	req := &Request{Method: "GET", URI: "/index.html"}
	cont := Continue(req)
	require.False(t, cont.IsResponse())
	assert.Same(t, req, cont.Request)
	assert.Nil(t, cont.Response)

	res := &Response{Status: 302}
	stop := Respond(res)
	require.True(t, stop.IsResponse())
	assert.Same(t, res, stop.Response)
	assert.Nil(t, stop.Request)
}
