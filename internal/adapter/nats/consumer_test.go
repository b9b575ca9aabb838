package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
)

type fakeResolver struct {
	adIDs    []int64
	statuses []entity.ModerationStatus
	comments []*string
}

func (f *fakeResolver) Resolve(_ context.Context, adID int64, _ *int64, status entity.ModerationStatus, comment *string) error {
	f.adIDs = append(f.adIDs, adID)
	f.statuses = append(f.statuses, status)
	f.comments = append(f.comments, comment)
	return nil
}

func newTestConsumer(t *testing.T) (*VerdictConsumer, *fakeResolver) {
	t.Helper()
	resolver := &fakeResolver{}
	c := &VerdictConsumer{resolver: resolver, log: logger.NewNop()}
	return c, resolver
}

func TestConsumeAppliesVerdict(t *testing.T) {
	c, resolver := newTestConsumer(t)

	c.consume(context.Background(), []byte(`{"ad_id":7,"status":"rejected","comment":"нет фото"}`))

	require.Equal(t, []int64{7}, resolver.adIDs)
	assert.Equal(t, entity.ModerationRejected, resolver.statuses[0])
	require.NotNil(t, resolver.comments[0])
	assert.Equal(t, "нет фото", *resolver.comments[0])
}

func TestConsumeNormalizesStatusCase(t *testing.T) {
	c, resolver := newTestConsumer(t)

	c.consume(context.Background(), []byte(`{"ad_id":3,"status":" Approved "}`))

	require.Len(t, resolver.statuses, 1)
	assert.Equal(t, entity.ModerationApproved, resolver.statuses[0])
}

func TestConsumeDropsMalformed(t *testing.T) {
	c, resolver := newTestConsumer(t)

	c.consume(context.Background(), []byte(`not json`))
	c.consume(context.Background(), []byte(`{"ad_id":0,"status":"approved"}`))
	c.consume(context.Background(), []byte(`{"ad_id":5,"status":"maybe"}`))

	assert.Empty(t, resolver.adIDs)
}

func TestNewVerdictConsumerRequiresDeps(t *testing.T) {
	_, err := NewVerdictConsumer(nil, &fakeResolver{}, logger.NewNop())
	assert.Error(t, err)
}
