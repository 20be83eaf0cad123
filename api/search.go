package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/service/search"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.GET("/locations", h.locations)
	router.GET("/flights/search", h.searchFlights)
}

func (h *SearchHandler) locations(c *gin.Context) {
	direction := search.Direction(c.DefaultQuery("direction", string(search.DirectionFrom)))
	if direction != search.DirectionFrom && direction != search.DirectionTo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be from or to"})
		return
	}

	result, err := h.service.Locations(c.Request.Context(), c.Query("q"), c.Query("anywhere_for"), direction)
	if err != nil {
		status := http.StatusInternalServerError
		var unavailable *remote.UnavailableError
		if errors.As(err, &unavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SearchHandler) searchFlights(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	passengers := 1
	if raw := c.Query("passengers"); raw != "" {
		passengers, err = strconv.Atoi(raw)
		if err != nil || passengers < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "passengers must be a positive number"})
			return
		}
	}

	offers, err := h.service.Flights(c.Request.Context(), remote.SearchQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Passengers:  passengers,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offers)
}
