//go:build wireinject
// +build wireinject

package di

import (
	"cowork/config"
	"cowork/infras/jwt"
	"cowork/infras/kafka"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/infras/redis"
	"cowork/infras/s3"
	"cowork/permissions"
	"cowork/shared/cache"
	"cowork/transport/http"
	"cowork/transport/http/middleware"
	"cowork/transport/http/router"

	authService "cowork/internal/domains/auth/service"
	authHandler "cowork/internal/handlers/auth"

	userRepository "cowork/internal/domains/user/repository"
	userService "cowork/internal/domains/user/service"
	userHandler "cowork/internal/handlers/user"

	spaceRepository "cowork/internal/domains/coworkingspace/repository"
	spaceService "cowork/internal/domains/coworkingspace/service"
	spaceHandler "cowork/internal/handlers/coworkingspace"

	roomRepository "cowork/internal/domains/meetingroom/repository"
	roomService "cowork/internal/domains/meetingroom/service"
	roomHandler "cowork/internal/handlers/meetingroom"

	reservationEvent "cowork/internal/domains/reservation/event"
	reservationRepository "cowork/internal/domains/reservation/repository"
	reservationService "cowork/internal/domains/reservation/service"
	reservationHandler "cowork/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var coworkingSpaceDomain = wire.NewSet(
	spaceRepository.New,
	spaceService.New,
)

var meetingRoomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	coworkingSpaceDomain,
	meetingRoomDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	spaceHandler.New,
	roomHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeReservationListener() *reservationEvent.Listener {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		reservationEvent.New,
	)

	return &reservationEvent.Listener{}
}
