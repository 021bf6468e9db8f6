package mailfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-account-service/mail"
)

var _ mail.Sender = (*Recorder)(nil)

// Recorder keeps every message it is asked to send. Err, when set, is returned from Send
// after recording.
type Recorder struct {
	Err error

	lock     sync.Mutex
	messages []mail.Message
}

func (r *Recorder) Send(_ context.Context, msg mail.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages = append(r.messages, msg)
	return r.Err
}

func (r *Recorder) Messages() []mail.Message {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]mail.Message(nil), r.messages...)
}

// Last returns the most recent message and false when nothing was sent.
func (r *Recorder) Last() (mail.Message, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(r.messages) == 0 {
		return mail.Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
