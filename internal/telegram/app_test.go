package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	sent []string
}

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func TestAccessDeniedSendsExactlyOneNotice(t *testing.T) {
	c := &stubContext{}

	require.NoError(t, accessDenied(c))

	assert.Equal(t, []string{"🔐 Access denied"}, c.sent)
}
