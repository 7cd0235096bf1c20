package audit

import "go.uber.org/zap"

type Event struct {
	ServiceID uint
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Dispatcher takes audit events off the request path. Writes happen on a
// single background worker; a full queue drops the event rather than stall
// the API.
type Dispatcher struct {
	recorder *Recorder
	log      *zap.SugaredLogger
	queue    chan Event
}

func NewDispatcher(recorder *Recorder, log *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(
			ev.ServiceID,
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Errorw("audit write failed", "action", ev.Action, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warnw("audit queue full, dropping event", "action", ev.Action)
	}
}
