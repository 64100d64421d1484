// Package watcher periodically checks the stored access token of a credential
// scope and ends the session as soon as the token is expired, even when no
// request is in flight.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/tokenstore"
)

const defaultInterval = time.Minute

type LimitedTokenStore interface {
	GetAccessToken(ctx context.Context) (string, error)
}

type ExpiryWatcher struct {
	lock          sync.Mutex
	name          string
	tokens        LimitedTokenStore
	interval      time.Duration
	onExpired     func(ctx context.Context)
	scheduler     *gocron.Scheduler
	ownsScheduler bool
	job           *gocron.Job
}

// Start schedules the periodic check. Starting a running watcher does nothing.
func (w *ExpiryWatcher) Start() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.job != nil {
		return nil
	}
	task := func(job gocron.Job) {
		w.Check(job.Context())
	}
	job, err := w.scheduler.Every(w.interval).WaitForSchedule().SingletonMode().DoWithJobDetails(task)
	if err != nil {
		return fmt.Errorf("cannot schedule the expiry check: %w", err)
	}
	w.job = job
	if w.ownsScheduler && !w.scheduler.IsRunning() {
		w.scheduler.StartAsync()
	}
	slog.Debug("EXPIRY WATCHER", "message", "started", "watcher", w.name, "interval", w.interval)
	return nil
}

// StartIfLoggedIn starts the watcher only when an access token is stored.
func (w *ExpiryWatcher) StartIfLoggedIn(ctx context.Context) error {
	_, err := w.tokens.GetAccessToken(ctx)
	if errors.Is(err, gwerrors.ErrTokenNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return w.Start()
}

// Stop removes the periodic check. Stopping a stopped watcher does nothing.
func (w *ExpiryWatcher) Stop() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.stop()
}

func (w *ExpiryWatcher) stop() {
	if w.job == nil {
		return
	}
	w.scheduler.RemoveByReference(w.job)
	w.job = nil
	slog.Debug("EXPIRY WATCHER", "message", "stopped", "watcher", w.name)
}

func (w *ExpiryWatcher) Running() bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.job != nil
}

// Check reads the stored access token and, when it is expired, stops the watcher
// and calls the expiry callback. A stopped watcher never calls the callback, so
// it runs at most once per Start.
func (w *ExpiryWatcher) Check(ctx context.Context) bool {
	token, err := w.tokens.GetAccessToken(ctx)
	if errors.Is(err, gwerrors.ErrTokenNotFound) {
		return false
	}
	if err != nil {
		slog.Error("EXPIRY WATCHER", "message", "could not read the access token", "watcher", w.name, "error", err)
		return false
	}
	if !tokenstore.IsTokenExpired(token) {
		return false
	}
	w.lock.Lock()
	if w.job == nil {
		w.lock.Unlock()
		return false
	}
	w.stop()
	w.lock.Unlock()
	slog.Info("EXPIRY WATCHER", "message", "access token expired, forcing logout", "watcher", w.name)
	w.onExpired(context.WithoutCancel(ctx))
	return true
}

// Close stops the watcher and, if the watcher created it, its scheduler.
func (w *ExpiryWatcher) Close() {
	w.Stop()
	if w.ownsScheduler {
		w.scheduler.Stop()
	}
}

type ExpiryWatcherOption func(*ExpiryWatcher) error

func WithName(name string) ExpiryWatcherOption {
	return func(w *ExpiryWatcher) error {
		w.name = name
		return nil
	}
}

func WithTokenStore(tokens LimitedTokenStore) ExpiryWatcherOption {
	return func(w *ExpiryWatcher) error {
		w.tokens = tokens
		return nil
	}
}

func WithInterval(interval time.Duration) ExpiryWatcherOption {
	return func(w *ExpiryWatcher) error {
		if interval <= 0 {
			return fmt.Errorf("the check interval has to be positive")
		}
		w.interval = interval
		return nil
	}
}

func WithOnExpired(onExpired func(ctx context.Context)) ExpiryWatcherOption {
	return func(w *ExpiryWatcher) error {
		w.onExpired = onExpired
		return nil
	}
}

// WithScheduler shares a scheduler between watchers. The caller starts and stops it.
func WithScheduler(scheduler *gocron.Scheduler) ExpiryWatcherOption {
	return func(w *ExpiryWatcher) error {
		w.scheduler = scheduler
		return nil
	}
}

func NewExpiryWatcher(options ...ExpiryWatcherOption) (*ExpiryWatcher, error) {
	w := ExpiryWatcher{interval: defaultInterval}
	for _, opt := range options {
		err := opt(&w)
		if err != nil {
			return &ExpiryWatcher{}, err
		}
	}
	if w.tokens == nil {
		return &ExpiryWatcher{}, fmt.Errorf("token store not initialized")
	}
	if w.onExpired == nil {
		return &ExpiryWatcher{}, fmt.Errorf("expiry callback not initialized")
	}
	if w.scheduler == nil {
		w.scheduler = gocron.NewScheduler(time.UTC)
		w.ownsScheduler = true
	}
	return &w, nil
}
