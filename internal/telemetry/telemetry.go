package telemetry

import (
	"nbterm/internal/gateway"
	"nbterm/internal/logger"
)

// Input modality tags carried on command events.
const (
	SourceKeyboard = "keyboard"
	SourceMouse    = "mouse"
)

// Sender is the outbound half of the host channel the recorder needs.
type Sender interface {
	Send(msgType string, payload any) error
}

// Recorder forwards usage events to the host as NativeCommand notifications.
// Fire-and-forget: failures are logged, never surfaced to the UI.
type Recorder struct {
	sender Sender
	log    *logger.LogEntry
}

func New(sender Sender) *Recorder {
	return &Recorder{sender: sender, log: logger.Named("telemetry")}
}

// Command records one command invocation with its input modality.
func (r *Recorder) Command(command, source string) {
	if r == nil || r.sender == nil || command == "" {
		return
	}
	if err := r.sender.Send(gateway.MsgNativeCommand, gateway.NativeCommand{
		Command: command,
		Source:  source,
	}); err != nil {
		r.log.WithField("command", command).Warnf("telemetry send failed: %v", err)
	}
}
