// File: internal/jobs/session_expiry.go
package jobs

import (
	"fmt"
	"time"

	"leadgen_backend/internal/config"
	"leadgen_backend/internal/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweepJob evicts expired sessions in the background. Expiry is also
// detected lazily at resolve time; the sweep only keeps the store from
// accumulating dead entries.
type SessionSweepJob struct {
	sessions      *session.Manager
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSessionSweepJob creates a new SessionSweepJob.
func NewSessionSweepJob(
	sessions *session.Manager,
	logger *zap.Logger,
	cfg *config.Config,
) *SessionSweepJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &SessionSweepJob{
		sessions:      sessions,
		logger:        logger.Named("SessionSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SessionSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.SessionSweepSchedule
	if jobSpec == "" {
		j.logger.Warn("Session sweep schedule not defined (SESSION_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule session sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Session sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *SessionSweepJob) runJob() {
	removed := j.sessions.SweepExpired()
	if removed > 0 {
		j.logger.Info("Session sweep completed", zap.Int("sessions_removed", removed))
	} else {
		j.logger.Debug("Session sweep completed, nothing to remove")
	}
}

// Stop gracefully stops the cron scheduler.
func (j *SessionSweepJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping session sweep scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Session sweep scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Session sweep scheduler stop timed out.")
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
