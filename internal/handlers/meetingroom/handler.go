package meetingroom

import (
	"net/http"

	"cowork/infras/otel"
	"cowork/internal/domains/meetingroom/model"
	"cowork/internal/domains/meetingroom/model/dto"
	"cowork/internal/domains/meetingroom/service"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/validator"
	"cowork/transport/http/param"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formRoomNumber     = "roomNumber"
	formLocation       = "location"
	formCapacity       = "capacity"
	formProjector      = "projector"
	formWhiteboard     = "whiteboard"
	formTV             = "tv"
	formSpeaker        = "speaker"
	formCoworkingSpace = "coworkingSpace"
	formImage          = "image"

	queryMinCapacity = "minCapacity"
)

type Handler struct {
	service service.MeetingRoom
	otel    otel.Otel
}

func New(service service.MeetingRoom, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/meetingrooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMeetingRoom)
		routerGroup.Get("/", handler.GetMeetingRooms)
		routerGroup.Get("/{id}", handler.GetMeetingRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateMeetingRoom)
		routerGroup.Delete("/{id}", handler.DeleteMeetingRoom)
	})

	router.Route("/coworkingspaces/{coworkingSpaceId}/meetingrooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMeetingRoom)
		routerGroup.Get("/", handler.GetMeetingRooms)
	})
}

// CreateMeetingRoom handles the creation of a meeting room.
// @Summary Create a meeting room
// @Description Admin only. The coworking space may come from the path or the form.
// @Tags MeetingRoom
// @Accept multipart/form-data
// @Produce json
// @Param roomNumber formData string true "Room number"
// @Param location formData string true "Location inside the space"
// @Param capacity formData integer true "Seats"
// @Param projector formData boolean false "Has projector"
// @Param whiteboard formData boolean false "Has whiteboard"
// @Param tv formData boolean false "Has TV"
// @Param speaker formData boolean false "Has speaker"
// @Param coworkingSpace formData string false "Coworking space ID"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Data[dto.MeetingRoomResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/meetingrooms [post]
// @Router /v1/coworkingspaces/{coworkingSpaceId}/meetingrooms [post]
// @Security BearerAuth
func (handler *Handler) CreateMeetingRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMeetingRoom")
	defer scope.End()

	spaceID, err := param.OptionalUUID(request, constant.RequestParamCoworkingSpaceID, "coworking space")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateMeetingRoomRequest{
		RoomNumber:       request.FormValue(formRoomNumber),
		Location:         request.FormValue(formLocation),
		CoworkingSpaceID: request.FormValue(formCoworkingSpace),
	}

	if spaceID != constant.Empty {
		req.CoworkingSpaceID = spaceID
	}

	if capacity, err := shared.ConvertStringToInt(request.FormValue(formCapacity)); err == nil {
		req.Capacity = capacity
	}

	req.Projector = formBool(request, formProjector)
	req.Whiteboard = formBool(request, formWhiteboard)
	req.TV = formBool(request, formTV)
	req.Speaker = formBool(request, formSpeaker)

	file, fileHeader, err := request.FormFile(formImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create meeting room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Meeting room created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetMeetingRooms lists meeting rooms.
// @Summary Get meeting rooms
// @Description When reserveDateStart and reserveDateEnd are both given only rooms free and open for the whole window are returned.
// @Tags MeetingRoom
// @Produce json
// @Param coworkingSpaceId path string false "Coworking space ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param reserveDateStart query string false "Window start (RFC3339)"
// @Param reserveDateEnd query string false "Window end (RFC3339)"
// @Param location query string false "Filter by location"
// @Param minCapacity query integer false "Minimum capacity"
// @Param projector query boolean false "Filter by projector"
// @Param whiteboard query boolean false "Filter by whiteboard"
// @Param tv query boolean false "Filter by TV"
// @Param speaker query boolean false "Filter by speaker"
// @Success 200 {object} response.Data[dto.GetMeetingRoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/meetingrooms [get]
// @Router /v1/coworkingspaces/{coworkingSpaceId}/meetingrooms [get]
func (handler *Handler) GetMeetingRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMeetingRooms")
	defer scope.End()

	spaceID, err := param.OptionalUUID(request, constant.RequestParamCoworkingSpaceID, "coworking space")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSortBy(
		model.FieldRoomNumber,
		model.FieldCapacity,
		constant.FieldCreatedAt,
	)

	values := request.URL.Query()

	window, err := dto.ParseAvailabilityWindow(
		values.Get(constant.RequestParamReserveDateStart),
		values.Get(constant.RequestParamReserveDateEnd),
	)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if location := values.Get(formLocation); location != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldLocation,
			Operator: gDto.FilterOperatorLike,
			Value:    location,
			Table:    model.TableName,
		})
	}

	if minCapacity, err := shared.ConvertStringToInt(values.Get(queryMinCapacity)); err == nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    minCapacity,
			Table:    model.TableName,
		})
	}

	for _, amenity := range []string{model.FieldProjector, model.FieldWhiteboard, model.FieldTV, model.FieldSpeaker} {
		if value := shared.ConvertStringToBool(values.Get(amenity)); value != nil {
			filter.Filters = append(filter.Filters, gDto.Filter{
				Field:    amenity,
				Operator: gDto.FilterOperatorEq,
				Value:    *value,
				Table:    model.TableName,
			})
		}
	}

	res, err := handler.service.GetAll(ctx, queryParams, dto.ListMeetingRoomsQuery{
		Filter:           filter,
		CoworkingSpaceID: spaceID,
		Window:           window,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get meeting rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetMeetingRoomByID retrieves a meeting room by its ID.
// @Summary Get a meeting room by ID
// @Tags MeetingRoom
// @Produce json
// @Param id path string true "Meeting room ID"
// @Success 200 {object} response.Data[dto.MeetingRoomResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/meetingrooms/{id} [get]
func (handler *Handler) GetMeetingRoomByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMeetingRoomByID")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "meeting room")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get meeting room by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateMeetingRoom updates a meeting room.
// @Summary Update a meeting room
// @Description Admin only. A new image replaces the stored one.
// @Tags MeetingRoom
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Meeting room ID"
// @Param roomNumber formData string false "Room number"
// @Param location formData string false "Location inside the space"
// @Param capacity formData integer false "Seats"
// @Param projector formData boolean false "Has projector"
// @Param whiteboard formData boolean false "Has whiteboard"
// @Param tv formData boolean false "Has TV"
// @Param speaker formData boolean false "Has speaker"
// @Param coworkingSpace formData string false "Coworking space ID"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/meetingrooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMeetingRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMeetingRoom")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "meeting room")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.UpdateMeetingRoomRequest{
		RoomNumber:       request.FormValue(formRoomNumber),
		Location:         request.FormValue(formLocation),
		CoworkingSpaceID: request.FormValue(formCoworkingSpace),
		Projector:        shared.ConvertStringToBool(request.FormValue(formProjector)),
		Whiteboard:       shared.ConvertStringToBool(request.FormValue(formWhiteboard)),
		TV:               shared.ConvertStringToBool(request.FormValue(formTV)),
		Speaker:          shared.ConvertStringToBool(request.FormValue(formSpeaker)),
	}

	if capacity, err := shared.ConvertStringToInt(request.FormValue(formCapacity)); err == nil {
		req.Capacity = &capacity
	}

	file, fileHeader, err := request.FormFile(formImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update meeting room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Meeting room updated successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Meeting room updated successfully")
}

// DeleteMeetingRoom deletes a meeting room and its reservations.
// @Summary Delete a meeting room
// @Tags MeetingRoom
// @Produce json
// @Param id path string true "Meeting room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/meetingrooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMeetingRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMeetingRoom")
	defer scope.End()

	id, err := param.UUID(request, constant.RequestParamID, "meeting room")
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete meeting room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Meeting room deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Meeting room deleted successfully")
}

func formBool(request *http.Request, key string) bool {
	value := shared.ConvertStringToBool(request.FormValue(key))

	return value != nil && *value
}
