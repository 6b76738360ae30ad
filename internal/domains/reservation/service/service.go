package service

import (
	"context"
	"errors"
	"fmt"

	"cowork/config"
	"cowork/infras/kafka"
	"cowork/infras/otel"
	spaceModel "cowork/internal/domains/coworkingspace/model"
	spaceRepo "cowork/internal/domains/coworkingspace/repository"
	roomModel "cowork/internal/domains/meetingroom/model"
	roomRepo "cowork/internal/domains/meetingroom/repository"
	"cowork/internal/domains/reservation/model"
	"cowork/internal/domains/reservation/model/dto"
	"cowork/internal/domains/reservation/policy"
	"cowork/internal/domains/reservation/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/metrics"
	"cowork/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"

	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, meetingRoomID string) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Reservation
	roomRepo  roomRepo.MeetingRoom
	spaceRepo spaceRepo.CoworkingSpace
	kafka     kafka.Client
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepo.MeetingRoom,
	spaceRepo spaceRepo.CoworkingSpace,
	kafka kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		spaceRepo: spaceRepo,
		kafka:     kafka,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create books a meeting room. Every check short-circuits and nothing is written unless all pass.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	defer func() {
		s.observe(metrics.OperationReservationCreate, err)
	}()

	_, space, err := s.resolveRoom(ctx, req.MeetingRoomID)
	if err != nil {
		return res, err
	}

	if !req.ReserveDateStart.Before(req.ReserveDateEnd) {
		return res, failure.BadRequestFromString("Reservation start time must be before end time.") // nolint:wrapcheck
	}

	reservation := req.ToModel()

	err = s.repo.WithinBookingLock(ctx, req.UserID, req.MeetingRoomID, func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.repo.CountByUser(ctx, sqltx, req.UserID)
		if err != nil {
			return err
		}

		limit := s.quota()
		if !policy.CanCreate(req.Role, current, limit) {
			return failure.QuotaExceeded(fmt.Sprintf("The user with ID %s has already made %d reservations", req.UserID, limit)) // nolint:wrapcheck
		}

		if err := s.checkSlot(ctx, sqltx, space, reservation, constant.Empty); err != nil {
			return err
		}

		return s.repo.InsertTx(ctx, sqltx, reservation) // nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("meetingRoomID", req.MeetingRoomID).Str("userID", req.UserID).Msg("failed to create reservation")

		return res, classify(err)
	}

	res.FromModel(reservation)

	s.publish(ctx, EventReservationCreated, reservation)
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, meetingRoomID string) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := s.listFilter(ctx, meetingRoomID)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	// cached entries still go through the ownership check
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, authorize(ctx, res.UserID, "view")
	}

	reservation, err := s.findOwned(ctx, id, "view")
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Update re-runs room resolution and the hours and overlap checks, excluding the reservation itself.
// The quota is not re-checked because the owner's reservation count does not change.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	defer func() {
		s.observe(metrics.OperationReservationUpdate, err)
	}()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	current, err := s.findOwned(ctx, id, "update")
	if err != nil {
		return res, err
	}

	merged, err := req.Merge(current)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	_, space, err := s.resolveRoom(ctx, merged.MeetingRoomID)
	if err != nil {
		return res, err
	}

	if !merged.ReserveDateStart.Before(merged.ReserveDateEnd) {
		return res, failure.BadRequestFromString("Reservation start time must be before end time.") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	merged.ModifiedAt = timezone.Now()
	merged.ModifiedBy = user

	err = s.repo.WithinBookingLock(ctx, current.UserID, merged.MeetingRoomID, func(ctx context.Context, sqltx *sqlx.Tx) error {
		if err := s.checkSlot(ctx, sqltx, space, merged, current.ID); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldMeetingRoomID:    merged.MeetingRoomID,
			model.FieldReserveDateStart: merged.ReserveDateStart,
			model.FieldReserveDateEnd:   merged.ReserveDateEnd,
			constant.FieldModifiedAt:    merged.ModifiedAt,
			constant.FieldModifiedBy:    merged.ModifiedBy,
		}

		return s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(id, model.FieldID, model.TableName)) // nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("reservationID", id).Msg("failed to update reservation")

		return res, classify(err)
	}

	res.FromModel(merged)

	s.publish(ctx, EventReservationUpdated, merged)
	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.findOwned(ctx, id, "delete")
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.publish(ctx, EventReservationDeleted, current)
	s.invalidate(ctx, id)

	return nil
}

// findOwned loads a reservation the caller owns, or any reservation when the caller is an admin.
func (s *serviceImpl) findOwned(ctx context.Context, id, action string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound(fmt.Sprintf("No reservation with the id of %s", id)) // nolint:wrapcheck
	}

	return reservation, authorize(ctx, reservation.UserID, action)
}

// authorize lets the owner and admins through.
func authorize(ctx context.Context, ownerID, action string) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if ownerID != user && role != constant.RoleAdmin {
		return failure.Unauthorized(fmt.Sprintf("User %s is not authorized to %s this reservation", user, action)) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) resolveRoom(ctx context.Context, meetingRoomID string) (roomModel.MeetingRoom, spaceModel.CoworkingSpace, error) {
	var space spaceModel.CoworkingSpace

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(meetingRoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get meeting room")

		return room, space, failure.StoreFailure(err) // nolint:wrapcheck
	}

	if room.ID == constant.Empty {
		return room, space, failure.NotFound(fmt.Sprintf("No meeting room with the id of %s", meetingRoomID)) // nolint:wrapcheck
	}

	space, err = s.spaceRepo.Get(ctx, shared.FilterByID(room.CoworkingSpaceID, spaceModel.FieldID, spaceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get coworking space")

		return room, space, failure.StoreFailure(err) // nolint:wrapcheck
	}

	if space.ID == constant.Empty {
		return room, space, failure.NotFound(fmt.Sprintf("No coworking space with the id of %s", room.CoworkingSpaceID)) // nolint:wrapcheck
	}

	return room, space, nil
}

func (s *serviceImpl) checkSlot(ctx context.Context, sqltx *sqlx.Tx, space spaceModel.CoworkingSpace, reservation model.Reservation, excludeID string) error {
	if !policy.WithinOperatingHours(space.OpenTime, space.CloseTime, reservation.ReserveDateStart, reservation.ReserveDateEnd) {
		return failure.OutOfHours(fmt.Sprintf( // nolint:wrapcheck
			"Reservation must be between %s and %s.",
			policy.ClockTime(space.OpenTime),
			policy.ClockTime(space.CloseTime),
		))
	}

	conflict, err := s.repo.FindConflict(ctx, sqltx, reservation.MeetingRoomID, reservation.ReserveDateStart, reservation.ReserveDateEnd, excludeID)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if conflict.ID != constant.Empty {
		return failure.Conflict(fmt.Sprintf( // nolint:wrapcheck
			"The meeting room is already reserved from %s to %s. Please choose another time slot.",
			conflict.ReserveDateStart.UTC().Format(constant.DateFormat),
			conflict.ReserveDateEnd.UTC().Format(constant.DateFormat),
		))
	}

	return nil
}

// listFilter scopes a listing: users see their own reservations, admins see all or one room's.
func (s *serviceImpl) listFilter(ctx context.Context, meetingRoomID string) gDto.FilterGroup {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	switch {
	case role != constant.RoleAdmin:
		return shared.FilterByID(user, model.FieldUserID, model.TableName)
	case meetingRoomID != constant.Empty:
		return shared.FilterByID(meetingRoomID, model.FieldMeetingRoomID, model.TableName)
	default:
		return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	}
}

func (s *serviceImpl) quota() int {
	if s.cfg.Booking.MaxReservationsPerUser > 0 {
		return s.cfg.Booking.MaxReservationsPerUser
	}

	return policy.DefaultReservationQuota
}

func (s *serviceImpl) observe(operation string, err error) {
	outcome := metrics.OutcomeAccepted
	if err != nil {
		outcome = failure.GetReason(err)
	}

	metrics.ObserveReservation(operation, outcome)
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, reservation model.Reservation) {
	if !s.cfg.Kafka.Enable {
		return
	}

	event := dto.Event{}
	event.FromModel(eventType, reservation)

	message := kafka.Message{Key: reservation.MeetingRoomID, Value: event}

	if err := s.kafka.SendMessages(context.WithoutCancel(ctx), s.cfg.Kafka.Topic.Reservation, message); err != nil {
		log.Error().Err(err).Str("event", eventType).Str("reservationID", reservation.ID).Msg("failed to publish reservation event")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete reservation from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

// classify keeps domain rejections as they are, turns an exclusion violation into a conflict
// and reports every other store error as a store failure.
func classify(err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeExclusionViolation {
		return failure.Conflict("The meeting room is already reserved for the requested time slot. Please choose another time slot.") // nolint:wrapcheck
	}

	return failure.StoreFailure(err) // nolint:wrapcheck
}
