package exporters

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"

	"github.com/sirupsen/logrus"
)

// CsvExporter appends captured events to a csv file
type CsvExporter struct {
	CsvEventPath string
}

// InitCsvExporter initializes a new CsvExporter
func InitCsvExporter(csvEventPath string) *CsvExporter {
	if csvEventPath == "" {
		csvEventPath = os.Getenv("EXPORTER_CSV_EVENT_PATH")
		if csvEventPath == "" {
			logrus.Debugf("csv event path not provided, events will not be exported to csv")
			return nil
		}
	}

	if _, err := os.Stat(csvEventPath); os.IsNotExist(err) {
		writeEventHeaders(csvEventPath)
	}

	return &CsvExporter{
		CsvEventPath: csvEventPath,
	}
}

func (ce *CsvExporter) SendEvent(eventType utils.EventType, event events.Event) {
	csvFile, err := os.OpenFile(ce.CsvEventPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		logrus.Errorf("failed to open csv file: %v", err)
		return
	}
	defer csvFile.Close()

	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()

	row := []string{
		string(eventType),
		fmt.Sprintf("%d", event.GetPID()),
		event.GetComm(),
		event.GetTimestamp().Format("2006-01-02 15:04:05"),
		eventDetail(eventType, event),
	}

	if err := csvWriter.Write(row); err != nil {
		logrus.Errorf("failed to write csv row: %v", err)
	}
}

func eventDetail(eventType utils.EventType, event events.Event) string {
	switch ev := event.(type) {
	case *events.ProcessEvent:
		if eventType == utils.ExitEventType {
			return fmt.Sprintf("exit_code=%d", ev.ExitCode)
		}
		return ev.Filename
	case *events.NetworkEvent:
		return ev.Address()
	case *events.FileEvent:
		return fmt.Sprintf("%s flags=0x%x dirfd=%d", ev.Path, ev.Flags, ev.DirFD)
	default:
		return ""
	}
}

func writeEventHeaders(csvPath string) {
	csvFile, err := os.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logrus.Errorf("failed to create csv file: %v", err)
		return
	}
	defer csvFile.Close()

	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()

	if err := csvWriter.Write([]string{
		"Event Type",
		"PID",
		"Comm",
		"Timestamp",
		"Detail",
	}); err != nil {
		logrus.Errorf("failed to write csv headers: %v", err)
	}
}
