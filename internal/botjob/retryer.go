// Package botjob provides repeated execution of forge operations that fail
// with temporary errors.
package botjob

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/boterr"
	"github.com/profclems/mirrorbot/internal/logfields"
)

// DefRetryTimeout is the default duration after that retrying an operation
// is given up.
const DefRetryTimeout = 2 * time.Hour

const defBackoffInitialInterval = 5 * time.Second

// Retryer executes a function repeatedly until it was successful or a cancel
// condition happened.
type Retryer struct {
	logger                     *zap.Logger
	defTimeout                 time.Duration
	backoffInitialInterval     time.Duration
	backoffRandomizationFactor float64
	shutdownChan               chan struct{}
}

func NewRetryer() *Retryer {
	return &Retryer{
		logger:                     zap.L().Named("retryer"),
		defTimeout:                 DefRetryTimeout,
		backoffInitialInterval:     defBackoffInitialInterval,
		backoffRandomizationFactor: backoff.DefaultRandomizationFactor,
		shutdownChan:               make(chan struct{}),
	}
}

func logFieldResult(val string) zap.Field {
	return zap.String("operation_result", val)
}

// Run executes fn until it succeeded, it returned an error that does not
// wrap boterr.RetryableError, the context was cancelled or the retryer was
// stopped.
// If ctx has no deadline, a deadline of defTimeout is applied.
func (r *Retryer) Run(ctx context.Context, fn func(context.Context) error, logF []zap.Field) error {
	var tryCnt uint

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, r.defTimeout)
		defer cancelFn()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.backoffInitialInterval
	bo.RandomizationFactor = r.backoffRandomizationFactor
	bo.MaxElapsedTime = 0

	retryTimer := time.NewTimer(0)
	defer retryTimer.Stop()

	baseLogger := r.logger.With(logF...)

	for {
		tryCnt++
		logger := baseLogger.With(zap.Uint("try_count", tryCnt))

		select {
		case <-ctx.Done():
			logger.Info(
				"operation cancelled",
				logfields.Event("retryer_operation_cancelled"),
				logFieldResult("cancelled"),
				zap.Error(ctx.Err()),
			)

			return ctx.Err()

		case <-r.shutdownChan:
			logger.Info(
				"retryer terminating, operation not executed",
				logfields.Event("retryer_operation_aborted_shutdown"),
				logFieldResult("cancelled"),
			)

			return nil

		case <-retryTimer.C:
			err := fn(ctx)
			if err == nil {
				logger.Debug(
					"operation executed successfully",
					logfields.Event("retryer_operation_successful"),
					logFieldResult("success"),
				)

				return nil
			}

			logger = logger.With(zap.Error(err))

			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info(
					"operation cancelled",
					logfields.Event("retryer_operation_cancelled"),
					logFieldResult("cancelled"),
				)

				return err
			}

			var retryError *boterr.RetryableError
			if !errors.As(err, &retryError) {
				logger.Error(
					"operation failed, not retryable",
					logfields.Event("retryer_operation_failed"),
					logFieldResult("failure"),
				)

				return err
			}

			retryIn := bo.NextBackOff()
			if until := time.Until(retryError.After); until > retryIn {
				retryIn = until
			}

			retryTimer.Reset(retryIn)
			logger.Info(
				"operation failed, retry scheduled",
				logfields.Event("retryer_operation_retry_scheduled"),
				zap.Duration("retry_in", retryIn),
				zap.Duration("age", bo.GetElapsedTime()),
			)
		}
	}
}

// Stop notifies all Run() methods to terminate.
// It does not wait for their termination.
func (r *Retryer) Stop() {
	r.logger.Debug("retryer terminating", logfields.Event("retryer_terminating"))

	select {
	case <-r.shutdownChan:
		return // already closed
	default:
		close(r.shutdownChan)
	}
}
