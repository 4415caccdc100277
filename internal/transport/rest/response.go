package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cosecdesk/internal/domain"
)

type errorResponseBody struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Code    int      `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type paginatedResponse struct {
	Data       interface{}      `json:"data"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Counts     domain.TabCounts `json:"counts"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func paginatedSuccessResponse(c *gin.Context, page *domain.SpecialistPage) {
	totalPages := page.Total / page.PageSize
	if page.Total%page.PageSize > 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       page.Items,
		TotalCount: page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
		Counts:     page.Counts,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
}

// serviceErrorResponse is the single place where service errors become HTTP
// statuses. Remote messages are passed through as the backend sent them.
func serviceErrorResponse(c *gin.Context, err error) {
	status := errorStatus(err)

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.AbortWithStatusJSON(status, errorResponseBody{
			Status:  "error",
			Message: validation.Error(),
			Code:    status,
			Fields:  validation.Fields,
		})
		return
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "внутренняя ошибка сервера"
	}
	errorResponse(c, status, message)
}

func errorStatus(err error) int {
	var remote *domain.RemoteError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrIdentityLoading):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrSpecialistNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionBusy),
		errors.Is(err, domain.ErrTransitionInFlight),
		errors.Is(err, domain.ErrTransitionNotAllowed),
		errors.Is(err, domain.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUploadRejected),
		errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrUnknownOffering),
		errors.Is(err, domain.ErrUnknownSecretary):
		return http.StatusBadRequest
	case errors.As(err, &remote):
		if remote.StatusCode >= 400 && remote.StatusCode < 500 {
			return remote.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
