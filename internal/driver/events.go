package driver

import "time"

// Stage describes a high-level export phase.
type Stage string

const (
	// StageLoad is snapshot decoding.
	StageLoad Stage = "load"
	// StageExport is the conversion of one unit.
	StageExport Stage = "export"
	// StageWrite is encoding and writing the exported unit.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the unit is done.
	StatusDone Status = "done"
	// StatusError indicates the unit recorded an error.
	StatusError Status = "error"
)

// Event reports progress for a unit, named "<session>/<unit>", or for a
// whole session when Unit is the session name alone.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that an export phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Export.
type PhaseObserver func(PhaseEvent)

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// UnitName is the label used in events and reports.
func UnitName(session, unit string) string {
	return session + "/" + unit
}
