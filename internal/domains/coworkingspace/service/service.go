package service

import (
	"context"
	"fmt"
	"time"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/infras/s3"
	"cowork/internal/domains/coworkingspace/model"
	"cowork/internal/domains/coworkingspace/model/dto"
	"cowork/internal/domains/coworkingspace/repository"
	roomModel "cowork/internal/domains/meetingroom/model"
	roomRepo "cowork/internal/domains/meetingroom/repository"
	"cowork/internal/domains/reservation/policy"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCoworkingSpace    = "coworkingspace:get"
	cacheGetAllCoworkingSpace = "coworkingspace:gets"
	cacheCountCoworkingSpace  = "coworkingspace:count"
)

// Prefixes of caches that hold rows removed by a cascading delete.
var cascadeCachePrefixes = []string{"meetingroom", "reservation"}

type CoworkingSpace interface {
	Create(ctx context.Context, req dto.CreateCoworkingSpaceRequest) (dto.CoworkingSpaceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCoworkingSpacesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CoworkingSpaceResponse, error)
	Update(ctx context.Context, req dto.UpdateCoworkingSpaceRequest, id string) (dto.CoworkingSpaceResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.CoworkingSpace
	roomRepo roomRepo.MeetingRoom
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(repo repository.CoworkingSpace, roomRepo roomRepo.MeetingRoom, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) CoworkingSpace {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCoworkingSpaceRequest) (res dto.CoworkingSpaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	space := req.ToModel(user)

	if err = validateHours(space.OpenTime, space.CloseTime); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, space); err != nil {
		log.Error().Err(err).Msg("failed to create coworking space")

		return res, fmt.Errorf("failed to create coworking space: %w", err)
	}

	res.FromModel(space)

	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCoworkingSpacesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCoworkingSpace, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coworking spaces")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coworking spaces")

		return res, fmt.Errorf("failed to count coworking spaces: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coworking spaces")

		return res, fmt.Errorf("failed to get coworking spaces: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coworking spaces to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCoworkingSpace, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coworking spaces")

		return res, fmt.Errorf("failed to count coworking spaces: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coworking space count to cache")
		}
	}()

	return res, nil
}

// Get returns the space together with its meeting rooms.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CoworkingSpaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetCoworkingSpace, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coworking space")

		return res, nil
	}

	space, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	rooms, err := s.rooms(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(space)
	res.WithRooms(rooms)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coworking space to cache")
		}
	}()

	return res, nil
}

// Update applies a partial change. Opening hours are validated after merging with the stored ones.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCoworkingSpaceRequest, id string) (res dto.CoworkingSpaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	open, closing, err := req.Hours(current)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = validateHours(open, closing); err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, user)
	fields[model.FieldOpenTime] = open
	fields[model.FieldCloseTime] = closing

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update coworking space")

		return res, fmt.Errorf("failed to update coworking space: %w", err)
	}

	s.invalidate(ctx, id)

	updated, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

// Delete removes the space, its meeting rooms and their reservations, then the rooms' stored images.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	rooms, err := s.rooms(ctx, id, roomModel.FieldID, roomModel.FieldImage)
	if err != nil {
		return err
	}

	if err = s.repo.DeleteCascade(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to delete coworking space")

		return fmt.Errorf("failed to delete coworking space: %w", err)
	}

	for _, room := range rooms {
		key := s.s3.ObjectKey(room.Image)
		if key == constant.Empty {
			continue
		}

		if err := s.s3.DeleteObject(ctx, key); err != nil {
			log.Warn().Err(err).Str("meetingRoomID", room.ID).Msg("failed to delete meeting room image")
		}
	}

	s.invalidate(ctx, id)

	go func() {
		c := context.WithoutCancel(ctx)

		for _, prefix := range cascadeCachePrefixes {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.CoworkingSpace, error) {
	space, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get coworking space")

		return space, fmt.Errorf("failed to get coworking space: %w", err)
	}

	if space.ID == constant.Empty {
		return space, failure.NotFound(fmt.Sprintf("No coworking space with the id of %s", id)) // nolint:wrapcheck
	}

	return space, nil
}

func (s *serviceImpl) rooms(ctx context.Context, spaceID string, columns ...string) ([]roomModel.MeetingRoom, error) {
	rooms, err := s.roomRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: roomModel.TableName + "." + roomModel.FieldRoomNumber, SortDir: gDto.SortDirAsc},
		shared.FilterByID(spaceID, roomModel.FieldCoworkingSpaceID, roomModel.TableName),
		columns...,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get meeting rooms of coworking space")

		return nil, fmt.Errorf("failed to get meeting rooms of coworking space: %w", err)
	}

	return rooms, nil
}

func validateHours(open, closing time.Time) error {
	if policy.MinutesSinceMidnight(open) >= policy.MinutesSinceMidnight(closing) {
		return failure.BadRequestFromString("Open time must be before close time.") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCoworkingSpace, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete coworking space cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCoworkingSpace)
		shared.InvalidateCaches(c, s.cache, cacheCountCoworkingSpace)
	}()
}
