package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/client-onboarding/internal/httpresp"
)

func Health(c *gin.Context) {
	httpresp.OK(c, gin.H{"status": "ok"})
}
