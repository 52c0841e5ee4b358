package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"villadesk/internal/app/dto"
	villaapp "villadesk/internal/app/handlers/villas"
	"villadesk/internal/app/queries"
	"villadesk/internal/domain/shared/dateonly"
)

type VillaHandler struct {
	Queries queries.Bus
}

func (h VillaHandler) Search(c *gin.Context) {
	from, err := dateonly.Parse(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := dateonly.Parse(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guests, _ := strconv.Atoi(c.Query("guests"))
	query := villaapp.SearchAvailableQuery{
		LocationID: c.Query("locationId"),
		From:       from,
		To:         to,
		Guests:     guests,
	}
	result, err := queries.Ask[villaapp.SearchAvailableQuery, dto.VillaList](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ VillaHTTP = VillaHandler{}
