package coworkingspace

import (
	"net/http"

	"cowork/infras/otel"
	"cowork/internal/domains/coworkingspace/model"
	"cowork/internal/domains/coworkingspace/model/dto"
	"cowork/internal/domains/coworkingspace/service"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/validator"
	"cowork/transport/http/param"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.CoworkingSpace
	otel    otel.Otel
}

func New(service service.CoworkingSpace, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/coworkingspaces", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCoworkingSpace)
		routerGroup.Get("/", handler.GetCoworkingSpaces)
		routerGroup.Get("/{id}", handler.GetCoworkingSpaceByID)
		routerGroup.Patch("/{id}", handler.UpdateCoworkingSpace)
		routerGroup.Delete("/{id}", handler.DeleteCoworkingSpace)
	})
}

// CreateCoworkingSpace registers a coworking space.
// @Summary Create a coworking space
// @Description Admin only. Opening hours are HH:MM in UTC.
// @Tags CoworkingSpace
// @Accept json
// @Produce json
// @Param request body dto.CreateCoworkingSpaceRequest true "Coworking space"
// @Success 201 {object} response.Data[dto.CoworkingSpaceResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coworkingspaces [post]
// @Security BearerAuth
func (handler *Handler) CreateCoworkingSpace(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCoworkingSpace")
	defer scope.End()

	req := dto.CreateCoworkingSpaceRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create coworking space")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Coworking space created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetCoworkingSpaces lists coworking spaces.
// @Summary Get coworking spaces
// @Tags CoworkingSpace
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param district query string false "Filter by district"
// @Param province query string false "Filter by province"
// @Param region query string false "Filter by region"
// @Success 200 {object} response.Data[dto.GetCoworkingSpacesResponse]
// @Failure 500 {object} response.Error
// @Router /v1/coworkingspaces [get]
func (handler *Handler) GetCoworkingSpaces(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoworkingSpaces")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSortBy(
		model.FieldName,
		model.FieldProvince,
		model.FieldRegion,
		constant.FieldCreatedAt,
	)

	values := request.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if name := values.Get(model.FieldName); name != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	for _, field := range []string{model.FieldDistrict, model.FieldProvince, model.FieldRegion} {
		if value := values.Get(field); value != constant.Empty {
			filter.Filters = append(filter.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coworking spaces")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetCoworkingSpaceByID returns a coworking space with its meeting rooms.
// @Summary Get a coworking space by ID
// @Tags CoworkingSpace
// @Produce json
// @Param id path string true "Coworking space ID"
// @Success 200 {object} response.Data[dto.CoworkingSpaceResponse]
// @Failure 404 {object} response.Error
// @Router /v1/coworkingspaces/{id} [get]
func (handler *Handler) GetCoworkingSpaceByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoworkingSpaceByID")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "coworking space")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coworking space by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateCoworkingSpace changes a coworking space.
// @Summary Update a coworking space
// @Tags CoworkingSpace
// @Accept json
// @Produce json
// @Param id path string true "Coworking space ID"
// @Param request body dto.UpdateCoworkingSpaceRequest true "Fields to change"
// @Success 200 {object} response.Data[dto.CoworkingSpaceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/coworkingspaces/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCoworkingSpace(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCoworkingSpace")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "coworking space")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	req := dto.UpdateCoworkingSpaceRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update coworking space")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteCoworkingSpace deletes a coworking space with its meeting rooms and reservations.
// @Summary Delete a coworking space
// @Tags CoworkingSpace
// @Produce json
// @Param id path string true "Coworking space ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/coworkingspaces/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCoworkingSpace(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCoworkingSpace")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "coworking space")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete coworking space")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Coworking space deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Coworking space deleted successfully")
}
