package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/watchara/installment-service/internal/config"
	"github.com/watchara/installment-service/internal/service"
	"github.com/watchara/installment-service/internal/utils/email"
)

// ReminderJob scans for overdue installment terms on a schedule and mails a
// digest to shop staff.
type ReminderJob struct {
	svc    *service.Service
	sender *email.Sender
	cfg    *config.Config
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewReminderJob creates the job without starting it
func NewReminderJob(svc *service.Service, sender *email.Sender, cfg *config.Config, log *logrus.Logger) *ReminderJob {
	return &ReminderJob{
		svc:    svc,
		sender: sender,
		cfg:    cfg,
		log:    log,
		cron:   cron.New(),
	}
}

// Start registers the scan on the configured cron schedule
func (j *ReminderJob) Start() error {
	if _, err := j.cron.AddFunc(j.cfg.ReminderSchedule, j.run); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Infof("Overdue reminder job scheduled: %s", j.cfg.ReminderSchedule)
	return nil
}

// Stop halts the scheduler
func (j *ReminderJob) Stop() {
	j.cron.Stop()
}

func (j *ReminderJob) run() {
	terms, err := j.svc.ListOverdueTerms(context.Background())
	if err != nil {
		j.log.Errorf("Overdue scan failed: %v", err)
		return
	}
	if len(terms) == 0 {
		j.log.Debug("Overdue scan: nothing past due")
		return
	}

	var total int64
	for _, t := range terms {
		total += t.Amount
	}
	j.log.Infof("Overdue scan: %d term(s) past due, %d THB total", len(terms), total)

	if j.cfg.StaffEmail == "" {
		j.log.Warn("STAFF_EMAIL not configured, skipping overdue digest")
		return
	}
	if err := j.sender.SendOverdueDigest(j.cfg.StaffEmail, terms); err != nil {
		j.log.Errorf("Failed to send overdue digest: %v", err)
	}
}
