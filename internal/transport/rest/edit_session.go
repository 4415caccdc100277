package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
)

// @Summary Открыть сессию редактирования
// @Description С specialist_id открывает мастер редактирования, без тела запроса - мастер создания
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.OpenSessionRequest false "Специалист для редактирования"
// @Success 201 {object} service.SessionView "Сессия"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /edit-sessions [post]
func (h *Handler) openEditSession(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.OpenSessionRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	view, err := h.services.Editor.Open(c.Request.Context(), identity, input.SpecialistID)
	if err != nil {
		h.logger.Warn("не удалось открыть сессию редактирования",
			zap.String("specialistID", input.SpecialistID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, view)
}

// @Summary Получить сессию редактирования
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "ID сессии"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 404 {object} errorResponseBody "Сессия не найдена"
// @Router /edit-sessions/{sid} [get]
func (h *Handler) getEditSession(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	view, err := h.services.Editor.Get(identity, c.Param("sid"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Закрыть сессию редактирования
// @Description Отбрасывает все несохраненные изменения
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Param sid path string true "ID сессии"
// @Success 204 "Сессия закрыта"
// @Failure 404 {object} errorResponseBody "Сессия не найдена"
// @Router /edit-sessions/{sid} [delete]
func (h *Handler) closeEditSession(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if err := h.services.Editor.Close(identity, c.Param("sid")); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Заполнить шаг "Детали услуги"
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии"
// @Param input body domain.DetailsDraft true "Измененные поля"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 409 {object} errorResponseBody "Неверный шаг или сессия занята"
// @Router /edit-sessions/{sid}/details [put]
func (h *Handler) setSessionDetails(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.DetailsDraft
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	view, err := h.services.Editor.SetDetails(identity, c.Param("sid"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Выбрать дополнительные услуги
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии"
// @Param input body domain.OfferingsInput true "Коды услуг"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 400 {object} errorResponseBody "Неизвестная услуга"
// @Router /edit-sessions/{sid}/offerings [put]
func (h *Handler) setSessionOfferings(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.OfferingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	view, err := h.services.Editor.SetOfferings(identity, c.Param("sid"), input.Offerings)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Назначить секретаря
// @Description secretary_id: null снимает назначение
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии"
// @Param input body domain.SecretaryInput true "Секретарь"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 400 {object} errorResponseBody "Секретарь не найден"
// @Router /edit-sessions/{sid}/secretary [put]
func (h *Handler) setSessionSecretary(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.SecretaryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	view, err := h.services.Editor.SetSecretary(c.Request.Context(), identity, c.Param("sid"), input.SecretaryID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Следующий шаг мастера
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "ID сессии"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 422 {object} errorResponseBody "Шаг заполнен с ошибками"
// @Router /edit-sessions/{sid}/next [post]
func (h *Handler) nextStep(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	view, err := h.services.Editor.Next(identity, c.Param("sid"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Предыдущий шаг мастера
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "ID сессии"
// @Success 200 {object} service.SessionView "Сессия"
// @Router /edit-sessions/{sid}/back [post]
func (h *Handler) previousStep(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	view, err := h.services.Editor.Back(identity, c.Param("sid"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Загрузить изображение
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param sid path string true "ID сессии"
// @Param slot path string true "Слот: image_1, image_2, image_3"
// @Param file formData file true "Изображение JPG/PNG/WEBP"
// @Success 200 {object} service.SessionView "Сессия"
// @Failure 400 {object} errorResponseBody "Файл отклонен"
// @Failure 502 {object} errorResponseBody "Ошибка загрузки"
// @Router /edit-sessions/{sid}/media/{slot} [post]
func (h *Handler) uploadSessionImage(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	slot, err := domain.ParseSlot(c.Param("slot"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequestResponse(c, "файл не найден в запросе")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("ошибка при открытии загруженного файла", zap.Error(err))
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	// One byte over the limit is enough for the size check to reject it.
	data, err := io.ReadAll(io.LimitReader(file, int64(h.maxUploadBytes())+1))
	if err != nil {
		h.logger.Error("ошибка при чтении загруженного файла", zap.Error(err))
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}

	view, err := h.services.Editor.UploadImage(c.Request.Context(), identity, c.Param("sid"), domain.ImageFile{
		Slot:     slot,
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

func (h *Handler) maxUploadBytes() int {
	if h.config != nil && h.config.Media.MaxUploadBytes > 0 {
		return h.config.Media.MaxUploadBytes
	}
	return domain.MaxImageBytes
}

// @Summary Удалить изображение из слота
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "ID сессии"
// @Param slot path string true "Слот: image_1, image_2, image_3"
// @Success 200 {object} service.SessionView "Сессия"
// @Router /edit-sessions/{sid}/media/{slot} [delete]
func (h *Handler) removeSessionImage(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	slot, err := domain.ParseSlot(c.Param("slot"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	view, err := h.services.Editor.RemoveImage(identity, c.Param("sid"), slot)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Сводка перед сохранением
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "ID сессии"
// @Success 200 {object} service.ReviewView "Сводка"
// @Router /edit-sessions/{sid}/review [get]
func (h *Handler) reviewEditSession(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	review, err := h.services.Editor.Review(c.Request.Context(), identity, c.Param("sid"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, review)
}

// @Summary Сохранить изменения
// @Description В режиме создания publish выбирает публикацию или черновик
// @Tags Сессии редактирования
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии"
// @Param input body domain.SubmitRequest false "Параметры сохранения"
// @Success 200 {object} domain.Specialist "Сохраненный специалист"
// @Failure 409 {object} errorResponseBody "Сессия занята или не на последнем шаге"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /edit-sessions/{sid}/submit [post]
func (h *Handler) submitEditSession(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.SubmitRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	specialist, err := h.services.Editor.Submit(c.Request.Context(), identity, c.Param("sid"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}
