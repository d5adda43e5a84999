package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 15 * time.Second

// ReminderScheduler delivers a notification after delay. A later call with
// the same key replaces an earlier one that has not fired yet.
type ReminderScheduler interface {
	Schedule(key, title, body string, delay time.Duration)
}

// Sender pushes one notification out of the process.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// LogSender writes reminders to the log.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, title, body string) error {
	slog.Info("reminder", "title", title, "body", body)
	return nil
}

type Reminders struct {
	sender Sender

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewReminders(sender Sender) *Reminders {
	if sender == nil {
		sender = LogSender{}
	}
	return &Reminders{
		sender: sender,
		timers: make(map[string]*time.Timer),
	}
}

func (r *Reminders) Schedule(key, title, body string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.timers[key]; ok {
		old.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		if r.timers[key] != timer {
			r.mu.Unlock()
			return
		}
		delete(r.timers, key)
		r.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		err := r.sender.Send(ctx, title, body)
		if err != nil {
			slog.Warn("failed to send reminder", "key", key, "error", err)
		}
	})
	r.timers[key] = timer

	slog.Debug("reminder scheduled", "key", key, "delay", delay)
}

// pending returns how many reminders have not fired yet.
func (r *Reminders) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop drops every unfired reminder. Used on shutdown.
func (r *Reminders) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, timer := range r.timers {
		timer.Stop()
		delete(r.timers, key)
	}
}
