package greenapi

import (
	"context"
	"time"

	"avtobot/internal/platform/logger"
)

// Handler consumes one notification. Implementations must not panic the
// poller; errors are logged and the notification is still acked.
type Handler func(ctx context.Context, n *Notification)

// Poller drives the receiveNotification/deleteNotification loop.
type Poller struct {
	client  *Client
	timeout time.Duration
	handler Handler
	log     logger.Logger
}

func NewPoller(client *Client, timeout time.Duration, handler Handler, log logger.Logger) *Poller {
	return &Poller{client: client, timeout: timeout, handler: handler, log: log}
}

// Run blocks until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("Green API poller started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info("Green API poller stopped")
			return
		default:
		}

		receipt, err := p.client.ReceiveNotification(ctx, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.Errorf("receive notification: %v", err)
			// Back off briefly so a dead API does not spin the loop.
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
			}
			continue
		}
		if receipt == nil {
			continue
		}

		if receipt.Body != nil {
			p.dispatch(ctx, receipt.Body)
		}
		if err := p.client.DeleteNotification(ctx, receipt.ReceiptID); err != nil {
			p.log.Errorf("ack notification %d: %v", receipt.ReceiptID, err)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, n *Notification) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("handler panic on message %s: %v", n.IDMessage, r)
		}
	}()
	p.handler(ctx, n)
}
