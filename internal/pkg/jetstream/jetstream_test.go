package jetstream

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestMessageID(t *testing.T) {
	msg := nats.NewMsg("DRAW.lotto")
	msg.Header.Set(nats.MsgIdHdr, "cn1s8k2s2f4g")
	assert.Equal(t, "cn1s8k2s2f4g", MessageID(msg))

	// not bound to a jetstream subscription
	assert.Equal(t, "unknown", MessageID(&nats.Msg{Subject: "DRAW.lotto"}))
}
