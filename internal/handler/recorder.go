package handler

// Recorder receives domain counters from the handlers. metrics.Metrics
// implements it.
type Recorder interface {
	AuthAttempt(kind string, ok bool)
	EventOperation(op string, ok bool)
}

type nopRecorder struct{}

func (nopRecorder) AuthAttempt(string, bool)    {}
func (nopRecorder) EventOperation(string, bool) {}
