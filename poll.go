package houdiniswap

import (
	"context"
	"fmt"
	"time"
)

// Default polling cadence and deadlines.
const (
	DefaultPollInterval        = 5 * time.Second
	DefaultWaitTimeout         = 5 * time.Minute
	DefaultPollFinishedTimeout = 10 * time.Minute
)

// defaultTransitionsBuffer sizes the channel returned by NewTransitions.
// WithTransitions uses whatever channel the caller supplies as-is.
const defaultTransitionsBuffer = 16

// pollConfig carries per-call polling settings.
type pollConfig struct {
	interval    time.Duration
	timeout     time.Duration
	transitions chan<- Status
}

// PollOption configures a single polling call.
type PollOption func(*pollConfig)

// WithPollInterval overrides the wait between status fetches.
func WithPollInterval(interval time.Duration) PollOption {
	return func(cfg *pollConfig) {
		cfg.interval = interval
	}
}

// WithPollTimeout overrides the overall polling deadline.
func WithPollTimeout(timeout time.Duration) PollOption {
	return func(cfg *pollConfig) {
		cfg.timeout = timeout
	}
}

// WithTransitions publishes each observed status change to ch. Sends are
// non-blocking: a full channel drops the update rather than stalling the
// poll loop, so consumers see a best-effort stream, never a deadlock.
func WithTransitions(ch chan<- Status) PollOption {
	return func(cfg *pollConfig) {
		cfg.transitions = ch
	}
}

// NewTransitions returns a buffered channel suitable for WithTransitions.
func NewTransitions() chan Status {
	return make(chan Status, defaultTransitionsBuffer)
}

// WaitForStatus polls a transaction until it reaches target, the timeout
// expires, or ctx is canceled. Transient request failures are tolerated
// and polling continues; authentication and validation failures abort
// immediately.
func (c *Client) WaitForStatus(ctx context.Context, houdiniID string, target TxStatus, opts ...PollOption) (Status, error) {
	cfg := pollConfig{interval: DefaultPollInterval, timeout: DefaultWaitTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return c.pollUntil(ctx, houdiniID, cfg, func(s TxStatus) bool {
		return s == target
	}, fmt.Sprintf("waiting for status %s", target))
}

// PollUntilFinished polls a transaction until it reaches any terminal
// state (FINISHED, FAILED, EXPIRED or REFUNDED).
func (c *Client) PollUntilFinished(ctx context.Context, houdiniID string, opts ...PollOption) (Status, error) {
	cfg := pollConfig{interval: DefaultPollInterval, timeout: DefaultPollFinishedTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return c.pollUntil(ctx, houdiniID, cfg, TxStatus.Terminal, "waiting for transaction to finish")
}

func (c *Client) pollUntil(ctx context.Context, houdiniID string, cfg pollConfig, reached func(TxStatus) bool, what string) (Status, error) {
	deadline := time.Now().Add(cfg.timeout)

	var last *Status
	for {
		status, err := c.TransactionStatus(ctx, houdiniID)
		switch {
		case err == nil:
			if last == nil || last.Status != status.Status {
				c.publishTransition(cfg.transitions, status)
			}
			snapshot := status
			last = &snapshot

			if reached(status.Status) {
				return status, nil
			}
		case kindOf(err) == KindAuthentication || kindOf(err) == KindValidation:
			return Status{}, err
		default:
			// Transient failure: the transaction may still be progressing,
			// keep polling until the deadline.
			if c.logger != nil {
				c.logger.Warn("status poll attempt failed",
					"houdiniId", houdiniID,
					"error", err.Error(),
				)
			}
		}

		if time.Now().After(deadline) {
			return Status{}, &Error{
				Kind:       KindTimeout,
				Message:    fmt.Sprintf("timeout %s", what),
				LastStatus: last,
			}
		}

		select {
		case <-ctx.Done():
			return Status{}, &Error{
				Kind:       KindTimeout,
				Message:    fmt.Sprintf("canceled while %s", what),
				Cause:      ctx.Err(),
				LastStatus: last,
			}
		case <-time.After(cfg.interval):
		}
	}
}

// publishTransition delivers a status change without ever blocking the
// poll loop.
func (c *Client) publishTransition(ch chan<- Status, status Status) {
	if ch == nil {
		return
	}
	select {
	case ch <- status:
	default:
		if c.logger != nil {
			c.logger.Debug("transitions channel full, dropping status update",
				"houdiniId", status.HoudiniID,
				"status", status.Status,
			)
		}
	}
}
