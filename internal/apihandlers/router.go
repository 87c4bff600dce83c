package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every API route registered.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/predict", h.PredictHandler)
		v1.GET("/labels", h.LabelsHandler)
		v1.GET("/model", h.ModelHandler)

		historyGroup := v1.Group("/history")
		{
			historyGroup.GET("", h.ListHistoryHandler)
			historyGroup.GET("/:id", h.GetHistoryHandler)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}
