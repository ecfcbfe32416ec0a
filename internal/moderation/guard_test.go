package moderation

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group-verify-bot/internal/events"
	"group-verify-bot/internal/messenger/messengertest"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/registry"
)

const (
	groupID = int64(-100500)
	adminID = int64(1)
)

type fixture struct {
	guard    *Guard
	registry *registry.Registry
	recorder *messengertest.Recorder
}

func newFixture() fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg := registry.New(logger)
	rec := messengertest.New()
	guard := NewGuard(reg, rec, Config{
		GroupID:   groupID,
		AdminID:   adminID,
		EntryLink: "https://t.me/verify_bot?start=verify",
	}, metrics.New(), logger)
	return fixture{guard: guard, registry: reg, recorder: rec}
}

func groupMessage(userID int64, messageID int) events.TextMessage {
	return events.TextMessage{
		ChatID:    groupID,
		Kind:      events.Group,
		MessageID: messageID,
		Sender:    events.Sender{ID: userID, DisplayName: "Vahid"},
		Text:      "hello",
	}
}

func TestFourthMessageIsDeletedAndWarned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		assert.Equal(t, Allowed, f.guard.Inspect(ctx, groupMessage(50, i)))
	}
	assert.Empty(t, f.recorder.Calls())

	assert.Equal(t, Warned, f.guard.Inspect(ctx, groupMessage(50, 4)))

	deletes := f.recorder.OfKind(messengertest.KindDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, 4, deletes[0].MessageID)
	assert.Equal(t, groupID, deletes[0].ChatID)

	warnings := f.recorder.OfKind(messengertest.KindText)
	require.Len(t, warnings, 1)
	assert.Equal(t, groupID, warnings[0].ChatID)
	assert.Contains(t, warnings[0].Text, "Vahid")
	assert.Contains(t, warnings[0].Text, "https://t.me/verify_bot?start=verify")
}

func TestEveryMessagePastThresholdIsDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for n := 1; n <= 10; n++ {
		verdict := f.guard.Inspect(ctx, groupMessage(51, n))
		if n > 3 {
			assert.Equal(t, Warned, verdict, "message %d", n)
		} else {
			assert.Equal(t, Allowed, verdict, "message %d", n)
		}
	}
	assert.Len(t, f.recorder.OfKind(messengertest.KindDelete), 7)
	assert.Len(t, f.recorder.OfKind(messengertest.KindText), 7)
	assert.Equal(t, 10, f.registry.MessageCount(51))
}

func TestCountersArePerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.guard.Inspect(ctx, groupMessage(60, i))
		f.guard.Inspect(ctx, groupMessage(61, i))
	}
	assert.Empty(t, f.recorder.Calls())
}

func TestExemptions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			assert.Equal(t, Ignored, f.guard.Inspect(ctx, groupMessage(adminID, i)))
		}
	})

	t.Run("verified", func(t *testing.T) {
		f.registry.MarkVerified(70)
		for i := 0; i < 10; i++ {
			assert.Equal(t, Ignored, f.guard.Inspect(ctx, groupMessage(70, i)))
		}
		assert.Zero(t, f.registry.MessageCount(70))
	})

	t.Run("other chat", func(t *testing.T) {
		msg := groupMessage(71, 1)
		msg.ChatID = -999
		for i := 0; i < 10; i++ {
			assert.Equal(t, Ignored, f.guard.Inspect(ctx, msg))
		}
		assert.Zero(t, f.registry.MessageCount(71))
	})

	assert.Empty(t, f.recorder.Calls())
}

func TestBlockedUserIsDeletedSilently(t *testing.T) {
	f := newFixture()
	f.registry.MarkBlocked(80)

	assert.Equal(t, Removed, f.guard.Inspect(context.Background(), groupMessage(80, 9)))
	calls := f.recorder.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, messengertest.KindDelete, calls[0].Kind)
	assert.Equal(t, 9, calls[0].MessageID)
}

func TestDeliveryFailuresAreSwallowed(t *testing.T) {
	f := newFixture()
	f.recorder.FailOn(messengertest.KindDelete, messengertest.KindText)
	f.registry.MarkBlocked(90)
	ctx := context.Background()

	assert.Equal(t, Removed, f.guard.Inspect(ctx, groupMessage(90, 1)))
	for i := 1; i <= 4; i++ {
		f.guard.Inspect(ctx, groupMessage(91, i))
	}
	assert.Equal(t, 4, f.registry.MessageCount(91))
	assert.Len(t, f.recorder.OfKind(messengertest.KindText), 1)
}

func TestConcurrentMessagesCountExactly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.guard.Inspect(ctx, groupMessage(95, i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, f.registry.MessageCount(95))
	assert.Len(t, f.recorder.OfKind(messengertest.KindDelete), 97)
	assert.Len(t, f.recorder.OfKind(messengertest.KindText), 97)
}
