package notify

import (
	"rentdesk/internal/mail"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

// Dispatcher fans email side effects out on a bounded worker pool so
// gateway latency stays off the request path. Failures are logged and
// never propagated back to the caller.
type Dispatcher struct {
	mailer mail.Mailer
	pool   *workerpool.WorkerPool
	logger *logrus.Logger
}

func NewDispatcher(mailer mail.Mailer, workers int, logger *logrus.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}

	return &Dispatcher{
		mailer: mailer,
		pool:   workerpool.New(workers),
		logger: logger,
	}
}

// EnqueueEmail submits the message and returns immediately.
func (d *Dispatcher) EnqueueEmail(email Email) {
	d.pool.Submit(func() {
		if err := d.mailer.Send(email.To, email.Subject, email.Body, email.IsHTML); err != nil {
			d.logger.WithError(err).WithField("to", email.To).Error("failed to send notification email")
		}
	})
}

// SendEmail delivers synchronously; used where the caller reports the
// delivery outcome in its response.
func (d *Dispatcher) SendEmail(email Email) error {
	return d.mailer.Send(email.To, email.Subject, email.Body, email.IsHTML)
}

// Stop drains queued work and shuts the pool down.
func (d *Dispatcher) Stop() {
	d.pool.StopWait()
}
