package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/notify"
)

type recordingSink struct {
	rooms   int
	globals int
	err     error
}

func (s *recordingSink) NotifyRoom(context.Context, int64, string, any) error {
	if s.err != nil {
		return s.err
	}
	s.rooms++
	return nil
}

func (s *recordingSink) NotifyGlobal(context.Context, string, any) error {
	if s.err != nil {
		return s.err
	}
	s.globals++
	return nil
}

func TestFanoutDeliversToEverySink(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	fanout := notify.Fanout{first, second}

	require.NoError(t, fanout.NotifyRoom(context.Background(), 1, "ticket_updated", nil))
	require.NoError(t, fanout.NotifyGlobal(context.Background(), "user_registered", nil))

	assert.Equal(t, 1, first.rooms)
	assert.Equal(t, 1, second.rooms)
	assert.Equal(t, 1, first.globals)
	assert.Equal(t, 1, second.globals)
}

func TestFanoutContinuesPastFailingSink(t *testing.T) {
	broken := &recordingSink{err: errors.New("unreachable")}
	healthy := &recordingSink{}
	fanout := notify.Fanout{broken, healthy}

	err := fanout.NotifyRoom(context.Background(), 1, "ticket_updated", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, healthy.rooms, "healthy sink still delivered")
}

func TestEmptyFanoutIsANoOp(t *testing.T) {
	var fanout notify.Fanout
	assert.NoError(t, fanout.NotifyRoom(context.Background(), 1, "ticket_updated", nil))
	assert.NoError(t, fanout.NotifyGlobal(context.Background(), "user_approved", nil))
}
