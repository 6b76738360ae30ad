package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/infras/s3"
	spaceModel "cowork/internal/domains/coworkingspace/model"
	spaceRepo "cowork/internal/domains/coworkingspace/repository"
	"cowork/internal/domains/meetingroom/model"
	"cowork/internal/domains/meetingroom/model/dto"
	"cowork/internal/domains/meetingroom/repository"
	"cowork/internal/domains/reservation/policy"
	reservationRepo "cowork/internal/domains/reservation/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetMeetingRoom    = "meetingroom:get"
	cacheGetAllMeetingRoom = "meetingroom:gets"
	cacheCountMeetingRoom  = "meetingroom:count"

	cacheReservationPrefix = "reservation"
	// get-one of a coworking space embeds its rooms
	cacheGetCoworkingSpace = "coworkingspace:get"

	argReservedRoom = "reserved_room"
	argClosedSpace  = "closed_space"
)

type MeetingRoom interface {
	Create(ctx context.Context, req dto.CreateMeetingRoomRequest) (dto.MeetingRoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, query dto.ListMeetingRoomsQuery) (dto.GetMeetingRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MeetingRoomResponse, error)
	Update(ctx context.Context, req dto.UpdateMeetingRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	FilterAvailableRooms(ctx context.Context, start, end time.Time, coworkingSpaceID string) (gDto.FilterGroup, error)
}

type serviceImpl struct {
	repo            repository.MeetingRoom
	spaceRepo       spaceRepo.CoworkingSpace
	reservationRepo reservationRepo.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
	s3              s3.S3
}

func New(
	repo repository.MeetingRoom,
	spaceRepo spaceRepo.CoworkingSpace,
	reservationRepo reservationRepo.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) MeetingRoom {
	return &serviceImpl{
		repo:            repo,
		spaceRepo:       spaceRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
		s3:              s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMeetingRoomRequest) (res dto.MeetingRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureSpace(ctx, req.CoworkingSpaceID); err != nil {
		return res, err
	}

	imageURL, objectKey, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return res, err
	}

	room := req.ToModel(user, imageURL)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create meeting room")
		s.removeObject(ctx, objectKey)

		return res, fmt.Errorf("failed to create meeting room: %w", err)
	}

	res.FromModel(room)

	s.invalidate(ctx, constant.Empty)

	return res, nil
}

// GetAll lists meeting rooms. A window restricts the listing to rooms that are free and open for all of it.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, query dto.ListMeetingRoomsQuery) (res dto.GetMeetingRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.FilterGroup{
		Filters:  []any{query.Filter},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if query.Window != nil {
		available, err := s.FilterAvailableRooms(ctx, query.Window.Start, query.Window.End, query.CoworkingSpaceID)
		if err != nil {
			return res, err
		}

		filter.Filters = append(filter.Filters, available)

		return s.list(ctx, req, filter)
	}

	if query.CoworkingSpaceID != constant.Empty {
		filter.Filters = append(filter.Filters, shared.FilterByID(query.CoworkingSpaceID, model.FieldCoworkingSpaceID, model.TableName))
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMeetingRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for meeting rooms")

		return res, nil
	}

	res, err = s.list(ctx, req, filter)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meeting rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMeetingRoomsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count meeting rooms")

		return res, fmt.Errorf("failed to count meeting rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get meeting rooms")

		return res, fmt.Errorf("failed to get meeting rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMeetingRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for meeting room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count meeting rooms")

		return res, fmt.Errorf("failed to count meeting rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meeting room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MeetingRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetMeetingRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for meeting room")

		return res, nil
	}

	room, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meeting room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMeetingRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if req.CoworkingSpaceID != constant.Empty && req.CoworkingSpaceID != current.CoworkingSpaceID {
		if err = s.ensureSpace(ctx, req.CoworkingSpaceID); err != nil {
			return err
		}
	}

	imageURL, objectKey, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		fields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update meeting room")
		s.removeObject(ctx, objectKey)

		return fmt.Errorf("failed to update meeting room: %w", err)
	}

	if imageURL != constant.Empty {
		s.removeImage(ctx, current.Image)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes the room, its reservations and its stored image.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.DeleteCascade(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to delete meeting room")

		return fmt.Errorf("failed to delete meeting room: %w", err)
	}

	s.removeImage(ctx, current.Image)
	s.invalidate(ctx, id)

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheReservationPrefix)
	}()

	return nil
}

// FilterAvailableRooms narrows a room listing to rooms without a live reservation overlapping
// [start, end) whose coworking space is open for the whole window.
func (s *serviceImpl) FilterAvailableRooms(ctx context.Context, start, end time.Time, coworkingSpaceID string) (res gDto.FilterGroup, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FilterAvailableRooms")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !start.Before(end) {
		return res, failure.BadRequestFromString("Reservation start time must be before end time.") // nolint:wrapcheck
	}

	reserved, err := s.reservationRepo.DistinctReservedRooms(ctx, start, end, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to get reserved meeting rooms")

		return res, failure.StoreFailure(err) // nolint:wrapcheck
	}

	spaces, err := s.spaceRepo.GetAll(
		ctx,
		gDto.QueryParams{},
		gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd},
		spaceModel.FieldID, spaceModel.FieldOpenTime, spaceModel.FieldCloseTime,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coworking spaces")

		return res, failure.StoreFailure(err) // nolint:wrapcheck
	}

	closed := make([]string, 0, len(spaces))
	for _, space := range spaces {
		if !policy.WithinOperatingHours(space.OpenTime, space.CloseTime, start, end) {
			closed = append(closed, space.ID)
		}
	}

	res = gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    reserved,
				Operator: gDto.FilterOperatorNotIn,
				Table:    model.TableName,
				ArgName:  argReservedRoom,
			},
			gDto.Filter{
				Field:    model.FieldCoworkingSpaceID,
				Value:    closed,
				Operator: gDto.FilterOperatorNotIn,
				Table:    model.TableName,
				ArgName:  argClosedSpace,
			},
		},
	}

	if coworkingSpaceID != constant.Empty {
		res.Filters = append(res.Filters, gDto.Filter{
			Field:    model.FieldCoworkingSpaceID,
			Value:    coworkingSpaceID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.MeetingRoom, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get meeting room")

		return room, fmt.Errorf("failed to get meeting room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound(fmt.Sprintf("No meeting room with the id of %s", id)) // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) ensureSpace(ctx context.Context, coworkingSpaceID string) error {
	exist, err := s.spaceRepo.Exist(ctx, shared.FilterByID(coworkingSpaceID, spaceModel.FieldID, spaceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check coworking space existence")

		return fmt.Errorf("failed to check coworking space existence: %w", err)
	}

	if !exist {
		return failure.NotFound(fmt.Sprintf("No coworking space with the id of %s", coworkingSpaceID)) // nolint:wrapcheck
	}

	return nil
}

// uploadImage stores an optional image and returns its URL and object key.
func (s *serviceImpl) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if header == nil {
		return constant.Empty, constant.Empty, nil
	}

	url, err := s.s3.UploadFile(ctx, model.EntityName, file, header, uuid.NewString()+filepath.Ext(header.Filename))
	if err != nil {
		log.Error().Err(err).Msg("failed to upload meeting room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, s.s3.ObjectKey(url), nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	s.removeObject(ctx, s.s3.ObjectKey(url))
}

func (s *serviceImpl) removeObject(ctx context.Context, objectKey string) {
	if objectKey == constant.Empty {
		return
	}

	if err := s.s3.DeleteObject(ctx, objectKey); err != nil {
		log.Warn().Err(err).Str("objectKey", objectKey).Msg("failed to delete meeting room image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMeetingRoom, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete meeting room cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMeetingRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountMeetingRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetCoworkingSpace)
	}()
}
