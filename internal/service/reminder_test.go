package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	title string
	body  string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *fakeSender) Send(ctx context.Context, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{title: title, body: body})
	return s.err
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func TestRemindersFire(t *testing.T) {
	sender := &fakeSender{}
	r := NewReminders(sender)

	r.Schedule("water", "Time to drink water", "1 of 8", 5*time.Millisecond)

	assert.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, sentMessage{title: "Time to drink water", body: "1 of 8"}, sender.messages()[0])
	assert.Equal(t, 0, r.pending())
}

func TestRemindersLaterScheduleSupersedes(t *testing.T) {
	sender := &fakeSender{}
	r := NewReminders(sender)

	r.Schedule("water", "first", "", 30*time.Millisecond)
	r.Schedule("water", "second", "", 5*time.Millisecond)
	r.Schedule("meal", "other key", "", 5*time.Millisecond)
	assert.Equal(t, 2, r.pending())

	assert.Eventually(t, func() bool { return len(sender.messages()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	titles := []string{}
	for _, m := range sender.messages() {
		titles = append(titles, m.title)
	}
	assert.ElementsMatch(t, []string{"second", "other key"}, titles)
}

func TestRemindersNegativeDelayFiresNow(t *testing.T) {
	sender := &fakeSender{}
	r := NewReminders(sender)

	r.Schedule("water", "late", "", -time.Minute)
	assert.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestRemindersStop(t *testing.T) {
	sender := &fakeSender{}
	r := NewReminders(sender)

	r.Schedule("water", "never", "", 20*time.Millisecond)
	r.Stop()
	require.Equal(t, 0, r.pending())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sender.messages())
}

func TestRemindersSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("offline")}
	r := NewReminders(sender)

	r.Schedule("water", "t", "b", 0)
	assert.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, sender.messages(), 1, "no retry")
}

func TestEmailSenderDevModeLogsOnly(t *testing.T) {
	s := NewEmailSender("re_test", "noreply@example.com", "me@example.com", "gugu", true)
	assert.NoError(t, s.Send(context.Background(), "Time to drink water", "1 of 8"))
}

func TestEmailSenderRequiresKey(t *testing.T) {
	s := NewEmailSender("", "noreply@example.com", "me@example.com", "gugu", false)
	err := s.Send(context.Background(), "Time to drink water", "1 of 8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
}

func TestReminderEmailTemplate(t *testing.T) {
	subject, body := reminderEmailTemplate("Time to drink water", "1 of 8 glasses done today", "gugu")
	assert.Equal(t, "gugu: Time to drink water", subject)
	assert.Contains(t, body, "1 of 8 glasses done today")
}

func TestTelegramSenderRequiresToken(t *testing.T) {
	_, err := NewTelegramSender("", 42)
	assert.Error(t, err)
}

func TestFormatTelegramReminder(t *testing.T) {
	assert.Equal(t, "Time to drink water\n1 of 8", formatTelegramReminder("Time to drink water", "1 of 8"))
	assert.Equal(t, "Stretch", formatTelegramReminder("Stretch", ""))
}
