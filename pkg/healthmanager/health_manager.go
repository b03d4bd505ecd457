package healthmanager

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/hostwatcher"
)

type HealthManager struct {
	hostWatcher hostwatcher.HostWatcher
	port        int
}

func NewHealthManager() *HealthManager {
	return &HealthManager{
		port: 7888,
	}
}

func (h *HealthManager) SetHostWatcher(watcher hostwatcher.HostWatcher) {
	h.hostWatcher = watcher
}

func (h *HealthManager) Start(ctx context.Context) {
	go func() {
		http.HandleFunc("/livez", h.livenessProbe)
		http.HandleFunc("/readyz", h.readinessProbe)
		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", h.port),
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		logger.L().Info("starting health manager", helpers.Int("port", h.port))
		if err := srv.ListenAndServe(); err != nil {
			logger.L().Ctx(ctx).Fatal("failed to start health manager", helpers.Error(err), helpers.Int("port", h.port))
		}
	}()
}

func (h *HealthManager) livenessProbe(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *HealthManager) readinessProbe(w http.ResponseWriter, _ *http.Request) {
	if h.hostWatcher != nil && h.hostWatcher.Ready() {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}
