package exporters

import (
	"os"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"

	log "github.com/sirupsen/logrus"
)

type StdoutExporter struct {
	logger   *log.Logger
	nodeName string
}

func InitStdoutExporter(useStdout *bool, nodeName string) *StdoutExporter {
	if useStdout == nil {
		useStdout = new(bool)
		*useStdout = os.Getenv("STDOUT_ENABLED") != "false"
	}
	if !*useStdout {
		return nil
	}

	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	return &StdoutExporter{
		logger:   logger,
		nodeName: nodeName,
	}
}

func (exporter *StdoutExporter) SendEvent(eventType utils.EventType, event events.Event) {
	fields := log.Fields{
		"eventType": eventType,
		"node":      exporter.nodeName,
		"pid":       event.GetPID(),
		"comm":      event.GetComm(),
		"timestamp": event.GetTimestamp(),
	}

	switch ev := event.(type) {
	case *events.ProcessEvent:
		fields["ppid"] = ev.PPID
		fields["uid"] = ev.UID
		fields["gid"] = ev.GID
		if eventType == utils.ExecveEventType {
			fields["filename"] = ev.Filename
		} else {
			fields["exitCode"] = ev.ExitCode
		}
	case *events.NetworkEvent:
		fields["uid"] = ev.UID
		fields["address"] = ev.Address()
	case *events.FileEvent:
		fields["uid"] = ev.UID
		fields["path"] = ev.Path
		fields["flags"] = ev.Flags
		fields["dirfd"] = ev.DirFD
	}

	exporter.logger.WithFields(fields).Info(string(eventType))
}
