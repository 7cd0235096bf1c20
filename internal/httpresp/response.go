// Package httpresp shapes success payloads so availability and booking
// listings share one envelope.
package httpresp

import "github.com/gin-gonic/gin"

// ListResponse wraps collection payloads with the item count clients use
// for pagination-free result displays.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
