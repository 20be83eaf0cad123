package api

import (
	"errors"
	"net/http"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/service/payment"
	"github.com/aircompany/bookingflow/internal/service/workflow"
	"github.com/aircompany/bookingflow/internal/validate"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service workflow.WorkflowUseCase
}

type passengerUpdateRequest map[string]string

type seatRequest struct {
	SeatID string `json:"seat_id"`
}

type cabinRequest struct {
	Cabin domain.CabinClass `json:"cabin"`
}

type passengerUpdateResponse struct {
	Session *domain.BookingSession `json:"session"`
	Errors  []validate.Error       `json:"errors"`
}

type submitResponse struct {
	Session *domain.BookingSession `json:"session"`
	Record  *domain.BookingRecord  `json:"record"`
}

func NewSessionHandler(service workflow.WorkflowUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.GET("/seatmap", h.seatMap)
	router.POST("/sessions", h.create)
	router.GET("/sessions/:id", h.get)
	router.POST("/sessions/:id/advance", h.advance)
	router.POST("/sessions/:id/back", h.back)
	router.PUT("/sessions/:id/passenger", h.updatePassenger)
	router.PUT("/sessions/:id/seat", h.selectSeat)
	router.PUT("/sessions/:id/cabin", h.changeCabin)
	router.POST("/sessions/:id/offer/refresh", h.refreshOffer)
	router.POST("/sessions/:id/payment", h.submitPayment)
}

func (h *SessionHandler) seatMap(c *gin.Context) {
	c.JSON(http.StatusOK, workflow.SeatMap())
}

func (h *SessionHandler) create(c *gin.Context) {
	var req workflow.StartSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.StartSession(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) get(c *gin.Context) {
	session, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) advance(c *gin.Context) {
	session, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) back(c *gin.Context) {
	session, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) updatePassenger(c *gin.Context) {
	var req passengerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[validate.Field]string, len(req))
	for name, value := range req {
		fields[validate.Field(name)] = value
	}

	session, report, err := h.service.UpdatePassenger(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengerUpdateResponse{Session: session, Errors: report})
}

func (h *SessionHandler) selectSeat(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var session *domain.BookingSession
	var err error
	if req.SeatID == "" {
		session, err = h.service.ClearSeat(c.Request.Context(), c.Param("id"))
	} else {
		session, err = h.service.SelectSeat(c.Request.Context(), c.Param("id"), req.SeatID)
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) changeCabin(c *gin.Context) {
	var req cabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.ChangeCabin(c.Request.Context(), c.Param("id"), req.Cabin)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) refreshOffer(c *gin.Context) {
	session, err := h.service.RefreshOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) submitPayment(c *gin.Context) {
	var req domain.PaymentInstrument
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, record, err := h.service.SubmitPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{Session: session, Record: record})
}

func (h *SessionHandler) renderError(c *gin.Context, err error) {
	var gv *workflow.GuardViolation
	switch {
	case errors.As(err, &gv):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gv.Error(), "reasons": gv.Reasons})
	case errors.Is(err, workflow.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrSubmissionInFlight),
		errors.Is(err, workflow.ErrOfferExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrSeatUnknown),
		errors.Is(err, workflow.ErrSeatUnavailable),
		errors.Is(err, workflow.ErrDetailsLocked),
		errors.Is(err, workflow.ErrNotAtPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
