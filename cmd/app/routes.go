package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"

	"shiftservice/internal/api"
	"shiftservice/internal/api/middleware"
	"shiftservice/internal/service"
)

func (app *App) initHTTP(rateService service.RateServiceInterface) {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Post("/rates/update", api.HandleRequestUpdate(rateService))
	r.Get("/rates/latest", api.HandleGetLatestRate(rateService))
	r.Get("/rates/{update_id}", api.HandleGetRateByID(rateService))
	r.Get("/coins", api.HandleGetCoins(rateService))
	r.Get("/markets", api.HandleGetMarketInfo(rateService))
	r.Get("/markets/{pair}", api.HandleGetMarketInfo(rateService))
	r.Get("/tx/{address}", api.HandleGetTxStatus(rateService))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.db, app.rdbCache, app.rdbAsynq))

	if app.cfg.Server.ServeAsynqmon {
		mon := asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr},
		})
		r.Mount(mon.RootPath(), mon)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
