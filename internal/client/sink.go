package client

import (
	"context"
	"net/http"

	"github.com/aimhigh31/work-ten-sub005/internal/client/optimistic"
)

// ChangeLogSink forwards audit entries to the server's change-log store. It
// satisfies optimistic.Sink; the sequencer already treats sink failures as
// best-effort, so this type just reports them.
type ChangeLogSink struct {
	c *Client
}

// NewChangeLogSink builds the remote audit sink.
func NewChangeLogSink(c *Client) *ChangeLogSink {
	return &ChangeLogSink{c: c}
}

// Record appends one entry to the remote change log.
func (s *ChangeLogSink) Record(ctx context.Context, e optimistic.Entry) error {
	return s.c.do(ctx, http.MethodPost, "/api/v1/changelogs", nil, e, nil)
}
