package engine

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aerotechavionics/ehms/model"
)

// alertFrame is one alert event written to the flight-recorder stream.
type alertFrame struct {
	Session  string      `json:"session"`
	Recorded time.Time   `json:"recorded"`
	Alert    model.Alert `json:"alert"`
}

// AlertRecorder is a flight-recorder sink that writes JSON lines. Each
// run gets a session id so ground tooling can separate power cycles in
// an appended file.
type AlertRecorder struct {
	mu      sync.Mutex
	writer  *json.Encoder
	session string
}

// NewAlertRecorder creates a recorder writing to w.
func NewAlertRecorder(w io.Writer) *AlertRecorder {
	return &AlertRecorder{
		writer:  json.NewEncoder(w),
		session: uuid.NewString(),
	}
}

// Session returns the recording session id.
func (r *AlertRecorder) Session() string {
	return r.session
}

// LogAlert writes one alert event. Errors are returned to the alert
// manager, which counts them; recording never blocks acquisition.
func (r *AlertRecorder) LogAlert(alert model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Encode(alertFrame{
		Session:  r.session,
		Recorded: time.Now().UTC(),
		Alert:    alert,
	})
}
