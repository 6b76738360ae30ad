package handler

import (
	"net/http"
	"sync"

	"cowork/config"
	"cowork/di"
	"cowork/shared/logger"
	"cowork/shared/metrics"
	transport "cowork/transport/http"
)

var (
	once    sync.Once
	service *transport.HTTP
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		if cfg.Metrics.Enable {
			metrics.Register()
		}

		service = di.InitializeService()
	})

	service.ServeHTTP(w, r)
}
