package consumers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
)

type sliceSource struct {
	msgs   []*kafka.Message
	cancel context.CancelFunc
}

func (s *sliceSource) Next() (*kafka.Message, error) {
	if len(s.msgs) == 0 {
		s.cancel()
		return nil, context.Canceled
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	return msg, nil
}

type countingCommitter struct {
	committed int
}

func (c *countingCommitter) Commit(msg *kafka.Message) error {
	c.committed++
	return nil
}

type recordingHandler struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (h *recordingHandler) HandleText(ctx context.Context, subscriberID, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, [2]string{subscriberID, text})
	return h.err
}

func message(value string) *kafka.Message {
	return &kafka.Message{Value: []byte(value)}
}

func TestRunCommandLoop_RoutesAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &sliceSource{cancel: cancel, msgs: []*kafka.Message{
		message(`{"subscriber_id":"chat-1","text":"/stock PETR4"}`),
		message(`not json`),
		message(`{"subscriber_id":"","text":"/help"}`),
		message(`{"subscriber_id":"chat-2","text":"/news VALE3"}`),
	}}
	committer := &countingCommitter{}
	handler := &recordingHandler{}

	RunCommandLoop(ctx, source, committer, handler)

	assert.Equal(t, [][2]string{{"chat-1", "/stock PETR4"}, {"chat-2", "/news VALE3"}}, handler.calls)
	assert.Equal(t, 4, committer.committed)
}

func TestRunCommandLoop_HandlerErrorStillCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &sliceSource{cancel: cancel, msgs: []*kafka.Message{
		message(`{"subscriber_id":"chat-1","text":"/help"}`),
	}}
	committer := &countingCommitter{}

	RunCommandLoop(ctx, source, committer, &recordingHandler{err: errors.New("broker down")})

	assert.Equal(t, 1, committer.committed)
}
