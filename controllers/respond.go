package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
)

// respondError is the single place domain error kinds become HTTP
// statuses. Anything outside the envelope surfaces as a generic 500.
func respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	c.JSON(statusFor(ae.Kind), gin.H{"error": ae.Message, "code": string(ae.Kind)})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
