package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
	"cosecdesk/internal/service"
)

type offeringsResponse struct {
	Offerings []domain.Offering        `json:"offerings"`
	Durations []domain.DurationOption `json:"durations"`
}

// @Summary Каталог дополнительных услуг
// @Description Возвращает фиксированный каталог дополнительных услуг и подсказки длительности
// @Tags Справочники
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} offeringsResponse "Каталог"
// @Failure 401 {object} errorResponseBody "Требуется авторизация"
// @Router /offerings [get]
func (h *Handler) getOfferings(c *gin.Context) {
	successResponse(c, http.StatusOK, offeringsResponse{
		Offerings: domain.OfferingCatalog,
		Durations: domain.DurationSuggestions(),
	})
}

// @Summary Список секретарей
// @Description Возвращает справочник секретарей с поиском и фильтрами, статистика считается по всему справочнику
// @Tags Справочники
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Строка поиска"
// @Param status query string false "Статус" Enums(active, on_leave, inactive)
// @Param verification query string false "Проверка" Enums(verified, pending)
// @Param refresh query bool false "Перезагрузить справочник"
// @Success 200 {object} domain.SecretaryDirectory "Секретари"
// @Failure 400 {object} errorResponseBody "Некорректный фильтр"
// @Failure 401 {object} errorResponseBody "Требуется авторизация"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /secretaries [get]
func (h *Handler) getSecretaries(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter := domain.SecretaryFilter{
		Search:       c.Query("search"),
		Status:       domain.SecretaryStatus(c.Query("status")),
		Verification: domain.SecretaryVerification(c.Query("verification")),
	}
	switch filter.Status {
	case "", domain.SecretaryStatusActive, domain.SecretaryStatusOnLeave, domain.SecretaryStatusInactive:
	default:
		badRequestResponse(c, "некорректный статус секретаря")
		return
	}
	switch filter.Verification {
	case "", domain.SecretaryVerified, domain.SecretaryPending:
	default:
		badRequestResponse(c, "некорректный фильтр проверки")
		return
	}

	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	directory, err := h.services.Secretaries.List(c.Request.Context(), identity, filter, refresh)
	if err != nil {
		h.logger.Error("ошибка при получении списка секретарей", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, directory)
}

type createSecretaryForm struct {
	Email                   string  `form:"email"`
	Password                string  `form:"password"`
	FullName                string  `form:"full_name"`
	RegistrationNumber      string  `form:"registration_number"`
	SecretaryType           string  `form:"secretary_type"`
	Status                  string  `form:"status"`
	RegistrationDate        string  `form:"registration_date"`
	ExpiryDate              string  `form:"expiry_date"`
	Qualification           string  `form:"qualification"`
	YearsOfExperience       int     `form:"years_of_experience"`
	Experience              string  `form:"experience"`
	HourlyRate              float64 `form:"hourly_rate"`
	MonthlyRate             float64 `form:"monthly_rate"`
	IsAcceptingNewCompanies bool    `form:"is_accepting_new_companies"`
}

// @Summary Создать секретаря
// @Description Регистрирует секретаря. Контакты передаются полями contact_information[...], изображения файлами avatar и banner
// @Tags Справочники
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Пароль, не короче 8 символов"
// @Param full_name formData string true "Полное имя"
// @Param registration_number formData string true "Регистрационный номер"
// @Param secretary_type formData string true "Тип" Enums(individual, company)
// @Param status formData string true "Статус" Enums(active, inactive)
// @Param registration_date formData string true "Дата регистрации YYYY-MM-DD"
// @Param expiry_date formData string true "Дата окончания YYYY-MM-DD"
// @Param qualification formData string true "Квалификация"
// @Param years_of_experience formData int true "Опыт в годах"
// @Param experience formData string true "Описание опыта"
// @Param hourly_rate formData number true "Почасовая ставка"
// @Param monthly_rate formData number true "Месячная ставка"
// @Param contact_information[office_phone] formData string true "Рабочий телефон"
// @Param contact_information[mobile_phone] formData string true "Мобильный телефон"
// @Param contact_information[office_address] formData string true "Адрес офиса"
// @Param is_accepting_new_companies formData bool false "Принимает новые компании"
// @Param avatar formData file false "Аватар"
// @Param banner formData file false "Баннер"
// @Success 201 {object} domain.Secretary "Созданный секретарь"
// @Failure 400 {object} errorResponseBody "Некорректный запрос"
// @Failure 401 {object} errorResponseBody "Требуется авторизация"
// @Failure 422 {object} errorResponseBody "Ошибка валидации"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /secretaries [post]
func (h *Handler) createSecretary(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var form createSecretaryForm
	if err := c.ShouldBind(&form); err != nil {
		badRequestResponse(c, "некорректные данные формы")
		return
	}

	contact := c.PostFormMap("contact_information")
	req := domain.CreateSecretaryRequest{
		Email:              form.Email,
		Password:           form.Password,
		FullName:           form.FullName,
		RegistrationNumber: form.RegistrationNumber,
		SecretaryType:      domain.SecretaryType(form.SecretaryType),
		Status:             domain.SecretaryStatus(form.Status),
		RegistrationDate:   form.RegistrationDate,
		ExpiryDate:         form.ExpiryDate,
		Qualification:      form.Qualification,
		YearsOfExperience:  form.YearsOfExperience,
		Experience:         form.Experience,
		HourlyRate:         form.HourlyRate,
		MonthlyRate:        form.MonthlyRate,
		ContactInformation: domain.ContactInformation{
			OfficePhone:   contact["office_phone"],
			MobilePhone:   contact["mobile_phone"],
			OfficeAddress: contact["office_address"],
		},
		IsAcceptingNewCompanies: form.IsAcceptingNewCompanies,
	}

	if req.Avatar, err = h.formImage(c, "avatar"); err != nil {
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}
	if req.Banner, err = h.formImage(c, "banner"); err != nil {
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}

	created, err := h.services.Secretaries.Create(c.Request.Context(), identity, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, created)
}

// formImage reads an optional multipart image. A missing field is not an error.
func (h *Handler) formImage(c *gin.Context, field string) (*domain.ImageFile, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("ошибка при открытии загруженного файла", zap.String("field", field), zap.Error(err))
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxSecretaryImageBytes+1))
	if err != nil {
		h.logger.Error("ошибка при чтении загруженного файла", zap.String("field", field), zap.Error(err))
		return nil, err
	}

	return &domain.ImageFile{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// @Summary Варианты выбора секретаря
// @Description Возвращает варианты для выпадающего списка, первым идет "без секретаря"
// @Tags Справочники
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.SecretaryOption "Варианты"
// @Failure 401 {object} errorResponseBody "Требуется авторизация"
// @Failure 502 {object} errorResponseBody "Ошибка удаленного сервиса"
// @Router /secretaries/options [get]
func (h *Handler) getSecretaryOptions(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	options, err := h.services.Secretaries.Options(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("ошибка при получении вариантов секретарей", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, options)
}
