package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/exporters"
	"github.com/latedeployment/roea-sensor/pkg/healthmanager"
	hostwatcherv1 "github.com/latedeployment/roea-sensor/pkg/hostwatcher/v1"
	"github.com/latedeployment/roea-sensor/pkg/metricsmanager"
	metricprometheus "github.com/latedeployment/roea-sensor/pkg/metricsmanager/prometheus"
	"github.com/latedeployment/roea-sensor/pkg/processtable"
	"github.com/latedeployment/roea-sensor/pkg/utils"
	validator "github.com/latedeployment/roea-sensor/pkg/validator/ebpf"
)

func main() {
	ctx := context.Background()

	configDir := "/etc/config"
	if envPath := os.Getenv("CONFIG_DIR"); envPath != "" {
		configDir = envPath
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		logger.L().Ctx(ctx).Fatal("load config error", helpers.Error(err))
	}
	if cfg.NodeName == "" {
		cfg.NodeName, _ = os.Hostname()
	}

	// to enable otel, set OTEL_COLLECTOR_SVC=otel-collector:4317
	if otelHost, present := os.LookupEnv("OTEL_COLLECTOR_SVC"); present {
		ctx = logger.InitOtel("roea-sensor",
			os.Getenv("RELEASE"),
			"", cfg.NodeName,
			url.URL{Host: otelHost})
		defer logger.ShutdownOtel(ctx)
	}

	// Check if we need to validate the kernel capabilities.
	if os.Getenv("SKIP_KERNEL_VERSION_CHECK") == "" {
		if err := validator.VerifyEbpf(); err != nil {
			logger.L().Ctx(ctx).Error("error during kernel validation", helpers.Error(err))
			if strings.Contains(err.Error(), utils.ErrBTFSupport) {
				os.Exit(utils.ExitCodeMissingBTF)
			}
			os.Exit(utils.ExitCodeIncompatibleKernel)
		}
	}

	if _, present := os.LookupEnv("ENABLE_PROFILER"); present {
		logger.L().Info("starting profiler on port 6060")
		go func() {
			_ = http.ListenAndServe("localhost:6060", nil)
		}()
	}

	// Start the health manager
	healthManager := healthmanager.NewHealthManager()
	healthManager.Start(ctx)

	// Create Prometheus metrics exporter
	var prometheusExporter metricsmanager.MetricsManager
	if cfg.EnablePrometheusExporter {
		prometheusExporter = metricprometheus.NewPrometheusMetric()
	} else {
		prometheusExporter = metricsmanager.NewMetricsMock()
	}

	exporterBus := exporters.InitExporters(cfg.Exporters, cfg.NodeName)
	processTable := processtable.NewProcessTable()

	watcher := hostwatcherv1.CreateHostWatcher(cfg, prometheusExporter, processTable, exporterBus)
	healthManager.SetHostWatcher(watcher)

	prometheusExporter.Start()

	if err := watcher.Start(ctx); err != nil {
		logger.L().Ctx(ctx).Error("error starting the host watcher", helpers.Error(err))
		os.Exit(utils.ExitCodeError)
	}
	defer watcher.Stop()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	switch sig {
	case os.Interrupt:
		logger.L().Info("Received interrupt signal")
	case syscall.SIGTERM:
		logger.L().Info("Received SIGTERM signal")
	}
	logger.L().Info("host watcher shutting down", helpers.Int("trackedProcesses", processTable.Len()))
}
