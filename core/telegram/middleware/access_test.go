package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	sender *tele.User
	sent   []string
}

func (c *stubContext) Sender() *tele.User { return c.sender }

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func TestAllowListPassesListedSender(t *testing.T) {
	called := false
	h := AllowList(AccessOptions{AllowedUsers: []int64{7}})(func(tele.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(&stubContext{sender: &tele.User{ID: 7}}))
	assert.True(t, called)
}

func TestAllowListRejectsUnknownSender(t *testing.T) {
	called := false
	c := &stubContext{sender: &tele.User{ID: 99}}
	h := AllowList(AccessOptions{
		AllowedUsers: []int64{7},
		OnReject:     func(c tele.Context) error { return c.Send("denied") },
	})(func(tele.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(c))
	assert.False(t, called)
	assert.Equal(t, []string{"denied"}, c.sent)
}

func TestAllowListRejectsSilentlyWithoutHandler(t *testing.T) {
	c := &stubContext{sender: &tele.User{ID: 99}}
	h := AllowList(AccessOptions{AllowedUsers: []int64{7}})(func(tele.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	require.NoError(t, h(c))
	assert.Empty(t, c.sent)
}
