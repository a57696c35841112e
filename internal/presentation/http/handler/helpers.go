package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/middleware"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
)

// GetOperator returns the logged-in operator, writing a 401 when there is none
func GetOperator(c *gin.Context) (entity.Staff, bool) {
	staff, ok := middleware.CurrentStaff(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession)
		return entity.Staff{}, false
	}
	return staff, true
}

// bindJSON binds the body and answers 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return false
	}
	return true
}
