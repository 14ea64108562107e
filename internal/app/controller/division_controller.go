package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/division"
)

type DivisionController struct{}

func NewDivisionController() *DivisionController {
	return &DivisionController{}
}

// ListDivisions returns the full Vietnamese administrative division tree
// used by the checkout address form. The dataset is embedded in the binary,
// so the response is served straight from memory.
// GET /api/v1/divisions
func (ctrl *DivisionController) ListDivisions(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.JSON(http.StatusOK, gin.H{
		"provinces": division.All(),
	})
}
