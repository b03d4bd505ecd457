package exporters

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

func TestInitStdoutExporter(t *testing.T) {
	// Test when useStdout is nil
	useStdout := (*bool)(nil)
	exporter := InitStdoutExporter(useStdout, "test-node")
	assert.NotNil(t, exporter)
	assert.Equal(t, "test-node", exporter.nodeName)
	assert.NotNil(t, exporter.logger)

	// Test when useStdout is true
	useStdout = new(bool)
	*useStdout = true
	exporter = InitStdoutExporter(useStdout, "test-node")
	assert.NotNil(t, exporter)

	// Test when useStdout is false
	useStdout = new(bool)
	*useStdout = false
	exporter = InitStdoutExporter(useStdout, "test-node")
	assert.Nil(t, exporter)

	// Test when STDOUT_ENABLED disables the default
	t.Setenv("STDOUT_ENABLED", "false")
	exporter = InitStdoutExporter(nil, "test-node")
	assert.Nil(t, exporter)

	os.Unsetenv("STDOUT_ENABLED")
}

func TestStdoutExporterSendEvent(t *testing.T) {
	useStdout := new(bool)
	*useStdout = true
	exporter := InitStdoutExporter(useStdout, "test-node")

	// all event categories must be accepted without panicking
	exporter.SendEvent(utils.ExecveEventType, &events.ProcessEvent{
		Type:      utils.ExecveEventType,
		PID:       42,
		PPID:      100,
		Comm:      "sh",
		Filename:  "/usr/bin/sh",
		Timestamp: time.Now(),
	})
	exporter.SendEvent(utils.ExitEventType, &events.ProcessEvent{
		Type:     utils.ExitEventType,
		PID:      42,
		ExitCode: 1,
	})
	exporter.SendEvent(utils.NetworkEventType, &events.NetworkEvent{
		Type:   utils.NetworkEventType,
		PID:    42,
		Family: 2,
		Port:   443,
	})
	exporter.SendEvent(utils.OpenEventType, &events.FileEvent{
		Type: utils.OpenEventType,
		PID:  42,
		Path: "config.json",
	})
}
