package eventbridge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"agentxrp-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func tipEvents(n int) []events.DomainEvent {
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewTipRecorded(fmt.Sprintf("tip%05d", i), fmt.Sprintf("TX%d", i), "from0001", "to000001", 1_000, "", time.Now()))
	}
	return out
}

func TestPublishBatchChunksEntries(t *testing.T) {
	client := &mockClient{}
	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 10
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 2 &&
			aws.ToString(in.Entries[0].Source) == Source &&
			aws.ToString(in.Entries[0].DetailType) == events.TypeTipRecorded &&
			aws.ToString(in.Entries[0].EventBusName) == "ledger-bus"
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()

	p := NewPublisher(client, "ledger-bus", DefaultBreakerConfig(), zap.NewNop())
	require.NoError(t, p.PublishBatch(context.Background(), tipEvents(12)))
	client.AssertExpectations(t)
}

func TestPublishReportsFailedEntries(t *testing.T) {
	client := &mockClient{}
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{
			{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("try later")},
		},
	}, nil)

	p := NewPublisher(client, "ledger-bus", DefaultBreakerConfig(), zap.NewNop())
	err := p.Publish(context.Background(), tipEvents(1)[0])
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	client := &mockClient{}
	client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	p := NewPublisher(client, "ledger-bus", cfg, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.Error(t, p.Publish(context.Background(), tipEvents(1)[0]))
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Publish(context.Background(), tipEvents(1)[0])
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}

func TestPublishBatchEmpty(t *testing.T) {
	client := &mockClient{}
	p := NewPublisher(client, "ledger-bus", DefaultBreakerConfig(), zap.NewNop())
	assert.NoError(t, p.PublishBatch(context.Background(), nil))
	client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}
