package jetstream

import (
	"strconv"

	"github.com/nats-io/nats.go"
)

// MessageID identifies msg in logs: the publisher's Nats-Msg-Id when set,
// else its stream sequence.
func MessageID(msg *nats.Msg) string {
	if id := msg.Header.Get(nats.MsgIdHdr); id != "" {
		return id
	}
	meta, err := msg.Metadata()
	if err != nil {
		return "unknown"
	}
	return "seq:" + strconv.FormatUint(meta.Sequence.Stream, 10)
}
