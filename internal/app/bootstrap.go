package app

import (
	"errors"

	"github.com/tiemhang/tiemhang-api/internal/config"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/provider"
	"github.com/tiemhang/tiemhang-api/internal/queue"
	"github.com/tiemhang/tiemhang-api/internal/router"
	"github.com/tiemhang/tiemhang-api/internal/worker"
)

// BuildRunner wires the container and the services for the requested mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Warnw("queue_client_init_failed", "error", err)
		queueClient = nil
	}
	container := provider.NewContainer(cfg, queueClient)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			if mode == ModeWorker {
				return nil, err
			}
			logger.Warnw("worker_init_skipped", "error", err)
		} else {
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run is the application entry point.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
