package transport

import (
	"net/http"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/gin-gonic/gin"
)

type sizeOption struct {
	Value string
	Label string
	Shape string
}

var sizeOptions = []sizeOption{
	{Value: entity.SizeSquare, Label: "Square", Shape: "square"},
	{Value: entity.SizePortrait, Label: "Portrait", Shape: "portrait"},
}

var styleOptions = []string{
	entity.StyleModern,
	entity.StyleMinimal,
	entity.StyleEcommerce,
	entity.StyleLuxury,
}

func (h *PageHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Styles": styleOptions,
	})
}

func (h *PageHandler) Create(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", gin.H{
		"Sizes":        sizeOptions,
		"Styles":       styleOptions,
		"DefaultSize":  entity.SizeSquare,
		"DefaultStyle": entity.StyleModern,
	})
}

func (h *PageHandler) Preview(c *gin.Context) {
	state := entity.PreviewStateFromQuery(c.Request.URL.Query())
	c.HTML(http.StatusOK, "preview.html", gin.H{
		"State": state,
	})
}
