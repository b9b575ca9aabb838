package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
)

// SubjectModerationVerdicts carries verdicts back from the moderation tooling.
const SubjectModerationVerdicts = "ads.verdicts"

// VerdictMessage is the payload moderators publish for a checked ad.
type VerdictMessage struct {
	AdID        int64   `json:"ad_id"`
	Status      string  `json:"status"`
	ModeratorID *int64  `json:"moderator_id,omitempty"`
	Comment     *string `json:"comment,omitempty"`
}

// VerdictResolver applies one moderation verdict to the stored ad.
type VerdictResolver interface {
	Resolve(ctx context.Context, adID int64, moderatorID *int64, status entity.ModerationStatus, comment *string) error
}

// VerdictConsumer subscribes to moderation verdicts and applies them.
type VerdictConsumer struct {
	conn     *nats.Conn
	resolver VerdictResolver
	log      logger.Logger
	sub      *nats.Subscription
}

func NewVerdictConsumer(conn *nats.Conn, resolver VerdictResolver, log logger.Logger) (*VerdictConsumer, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("verdict resolver cannot be nil")
	}
	return &VerdictConsumer{conn: conn, resolver: resolver, log: log}, nil
}

func (c *VerdictConsumer) Start() error {
	sub, err := c.conn.Subscribe(SubjectModerationVerdicts, func(msg *nats.Msg) {
		c.consume(context.Background(), msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectModerationVerdicts, err)
	}
	c.sub = sub
	return nil
}

func (c *VerdictConsumer) Stop() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.log.Warnf("VerdictConsumer.Stop: unsubscribe: %v", err)
		}
	}
}

// consume applies one verdict message. Malformed messages are logged and
// dropped instead of being redelivered forever.
func (c *VerdictConsumer) consume(ctx context.Context, data []byte) {
	var msg VerdictMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Errorf("VerdictConsumer: undecodable message on %s: %v", SubjectModerationVerdicts, err)
		return
	}
	status, ok := entity.ParseModerationStatus(msg.Status)
	if !ok || msg.AdID <= 0 {
		c.log.Warnf("VerdictConsumer: malformed verdict for ad %d, status %q, dropped", msg.AdID, msg.Status)
		return
	}
	if err := c.resolver.Resolve(ctx, msg.AdID, msg.ModeratorID, status, msg.Comment); err != nil {
		c.log.Errorf("VerdictConsumer: resolve verdict for ad %d: %v", msg.AdID, err)
		return
	}
	c.log.Infof("VerdictConsumer: ad %d marked %s", msg.AdID, status)
}
