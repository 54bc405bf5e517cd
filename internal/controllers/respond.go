package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"trip_tracker/internal/apperr"
)

const anonymityBlockedMessage = "too few distinct trips in this area to disclose point data"

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindReference:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg} with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	status := statusFor(apperr.KindOf(err))
	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"route":      c.FullPath(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	c.JSON(status, gin.H{"error": apperr.MessageOf(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		badRequest(c, "'"+name+"' must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, c.Param(name))
	if err != nil {
		badRequest(c, "'"+name+"' must be an RFC3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}
