package router

import (
	"cowork/config"
	"cowork/internal/handlers/auth"
	"cowork/internal/handlers/coworkingspace"
	"cowork/internal/handlers/meetingroom"
	"cowork/internal/handlers/reservation"
	"cowork/internal/handlers/user"
	"cowork/shared/constant"
	"cowork/transport/http/middleware"

	_ "cowork/docs" // swagger docs

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth           auth.Handler
	User           user.Handler
	CoworkingSpace coworkingspace.Handler
	MeetingRoom    meetingroom.Handler
	Reservation    reservation.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	if r.Config.Metrics.Enable {
		router.Handle(r.Config.Metrics.Path, promhttp.Handler())
	}

	if r.Config.Server.Env != constant.ServerEnvProduction {
		router.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.CoworkingSpace.Router(routerGroup)
		r.DomainHandlers.MeetingRoom.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		Config:         cfg,
	}
}
