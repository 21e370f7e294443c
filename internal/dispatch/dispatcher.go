package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"quizbot/internal/quiz"
)

// leadingNumber strips a pre-existing numbering token from a stem before
// the dispatcher prefixes its own.
var leadingNumber = regexp.MustCompile(`^\d+\s*[.)]\s*`)

// PollSender is the messaging collaborator. One call, one outbound quiz
// poll; failures are opaque to the dispatcher beyond being failures.
type PollSender interface {
	SendQuizPoll(ctx context.Context, dest int64, question string, options []string, correctIndex int) error
}

// DefaultPacing spaces consecutive sends to stay under the collaborator's
// outbound rate limit. It carries no data dependency.
const DefaultPacing = 500 * time.Millisecond

type Dispatcher struct {
	sender   PollSender
	counters *CounterStore
	pacing   time.Duration
	log      logrus.FieldLogger
}

func New(sender PollSender, counters *CounterStore, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{sender: sender, counters: counters, pacing: DefaultPacing, log: log}
}

// WithPacing overrides the inter-send delay. Tests use zero.
func (d *Dispatcher) WithPacing(p time.Duration) *Dispatcher {
	d.pacing = p
	return d
}

// Send delivers questions to dest in order, numbering each with the
// destination's continuing counter. A failed send is counted, its original
// label recorded, and the batch moves on; one failure never aborts the
// rest. Cancellation stops the batch between sends without retracting
// anything already sent.
//
// The counter advances by the number of attempted sends, failures
// included, so numbering stays continuous across batches in a session.
func (d *Dispatcher) Send(ctx context.Context, dest int64, questions []quiz.Question) (sent, failed int, failedLabels []string) {
	start := d.counters.Next(dest)
	attempted := 0
	for _, q := range questions {
		if attempted > 0 && d.pacing > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(d.pacing):
			}
		}
		if ctx.Err() != nil {
			d.log.WithField("dest", dest).Warn("dispatch cancelled mid-batch")
			break
		}

		number := start + attempted
		stem := fmt.Sprintf("%d. %s", number, leadingNumber.ReplaceAllString(q.Stem, ""))
		attempted++

		if err := d.sender.SendQuizPoll(ctx, dest, stem, q.Options, q.CorrectIndex); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{"dest": dest, "label": q.Number}).Error("send quiz poll")
			failed++
			failedLabels = append(failedLabels, q.Number)
			continue
		}
		sent++
	}
	d.counters.Advance(dest, attempted)
	return sent, failed, failedLabels
}
