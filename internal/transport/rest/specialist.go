package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
)

// @Summary Получить список специалистов
// @Description Возвращает список услуг специалистов с поиском по названию, вкладками и пагинацией
// @Tags Специалисты
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Поиск по названию"
// @Param tab query string false "Вкладка: All, Drafts, Published"
// @Param page query int false "Номер страницы (по умолчанию 1)"
// @Param page_size query int false "Размер страницы (по умолчанию 10)"
// @Param refresh query bool false "Перезагрузить список с сервера"
// @Success 200 {object} paginatedResponse "Список специалистов"
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Failure 401 {object} errorResponseBody "Требуется авторизация"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /specialists [get]
func (h *Handler) getSpecialists(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	tab := domain.SpecialistTab(c.DefaultQuery("tab", string(domain.SpecialistTabAll)))
	switch tab {
	case domain.SpecialistTabAll, domain.SpecialistTabDrafts, domain.SpecialistTabPublished:
	default:
		badRequestResponse(c, "неизвестная вкладка")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	filter := domain.SpecialistFilter{
		Search:   c.Query("search"),
		Tab:      tab,
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.services.Specialists.List(c.Request.Context(), identity, filter, refresh)
	if err != nil {
		h.logger.Error("ошибка при получении списка специалистов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, result)
}

// @Summary Состояние кнопок статуса
// @Description Возвращает доступность действий публикации и верификации для специалиста
// @Tags Специалисты
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID специалиста"
// @Success 200 {object} service.ControlsView "Состояние"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /specialists/{id}/controls [get]
func (h *Handler) getSpecialistControls(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	controls, err := h.services.Status.Controls(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, controls)
}

// @Summary Опубликовать специалиста
// @Tags Специалисты
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID специалиста"
// @Success 200 {object} domain.Specialist "Обновленный специалист"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Failure 409 {object} errorResponseBody "Переход недоступен или уже выполняется"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /specialists/{id}/publish [patch]
func (h *Handler) publishSpecialist(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	specialist, err := h.services.Status.Publish(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}

// @Summary Снять специалиста с публикации
// @Tags Специалисты
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID специалиста"
// @Success 200 {object} domain.Specialist "Обновленный специалист"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Failure 409 {object} errorResponseBody "Переход недоступен или уже выполняется"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /specialists/{id}/unpublish [patch]
func (h *Handler) unpublishSpecialist(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	specialist, err := h.services.Status.Unpublish(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}

// @Summary Изменить статус верификации
// @Tags Специалисты
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID специалиста"
// @Param input body domain.VerifyRequest true "Новый статус"
// @Success 200 {object} domain.Specialist "Обновленный специалист"
// @Failure 400 {object} errorResponseBody "Неверный статус"
// @Failure 409 {object} errorResponseBody "Переход недоступен или уже выполняется"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /specialists/{id}/verify [patch]
func (h *Handler) verifySpecialist(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.VerifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный статус верификации")
		return
	}

	specialist, err := h.services.Status.SetVerification(c.Request.Context(), identity, c.Param("id"), input.Status)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}
