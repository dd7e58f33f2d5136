package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aiResume/internal/resume"
)

// SampleResume 返回一份固定的示例简历，无需登录。
func SampleResume(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resume": resume.Sample()})
}
