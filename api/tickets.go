package api

import (
	"errors"
	"net/http"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/repository"
	"github.com/aircompany/bookingflow/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

// DocumentRenderer produces the downloadable PDF artifacts for a record.
type DocumentRenderer interface {
	Ticket(rec domain.BookingRecord) ([]byte, string, error)
	BoardingPass(rec domain.BookingRecord) ([]byte, string, error)
}

type TicketHandler struct {
	service   tickets.TicketUseCase
	documents DocumentRenderer
}

func NewTicketHandler(service tickets.TicketUseCase, documents DocumentRenderer) *TicketHandler {
	return &TicketHandler{service: service, documents: documents}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/tickets", h.list)
	router.GET("/tickets/:ticketNumber", h.get)
	router.POST("/tickets/:ticketNumber/cancel", h.cancel)
	router.GET("/tickets/:ticketNumber/document", h.document)
	router.GET("/tickets/:ticketNumber/boarding-pass", h.boardingPass)
}

func (h *TicketHandler) list(c *gin.Context) {
	identity := c.Query("identity")
	if identity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity is required"})
		return
	}

	records, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *TicketHandler) get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TicketHandler) cancel(c *gin.Context) {
	record, err := h.service.Cancel(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TicketHandler) document(c *gin.Context) {
	h.renderDocument(c, h.documents.Ticket)
}

func (h *TicketHandler) boardingPass(c *gin.Context) {
	h.renderDocument(c, h.documents.BoardingPass)
}

func (h *TicketHandler) renderDocument(c *gin.Context, render func(domain.BookingRecord) ([]byte, string, error)) {
	record, err := h.service.Get(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	data, name, err := render(*record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *TicketHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
