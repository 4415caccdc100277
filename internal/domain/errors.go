package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("требуется авторизация")
	ErrIdentityLoading      = errors.New("сессия еще загружается, попробуйте позже")
	ErrNoSession            = errors.New("сессия редактирования не найдена")
	ErrSessionBusy          = errors.New("сессия редактирования занята отправкой")
	ErrSpecialistNotFound   = errors.New("специалист не найден")
	ErrValidation           = errors.New("заполните все обязательные поля")
	ErrUploadRejected       = errors.New("файл отклонен")
	ErrInvalidSlot          = errors.New("некорректный слот изображения")
	ErrUnknownOffering      = errors.New("неизвестная дополнительная услуга")
	ErrUnknownSecretary     = errors.New("секретарь не найден")
	ErrWrongStep            = errors.New("действие недоступно на текущем шаге")
	ErrTransitionInFlight   = errors.New("для этого специалиста уже выполняется смена статуса")
	ErrTransitionNotAllowed = errors.New("переход недоступен из текущего состояния")
)

// ValidationError aggregates failing fields of one step.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UploadRejection is returned by the client-side gate before any upload starts.
type UploadRejection struct {
	Reason string
}

func (e *UploadRejection) Error() string {
	return e.Reason
}

func (e *UploadRejection) Is(target error) bool {
	return target == ErrUploadRejected
}

// RemoteError is a non-2xx answer or transport failure from the backend.
type RemoteError struct {
	StatusCode int
	Message    string
	Fallback   string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Fallback != "" {
		return e.Fallback
	}
	return "ошибка удаленного сервиса"
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// WithFallback sets the generic message used when the server sent none.
func WithFallback(err error, fallback string) error {
	var remote *RemoteError
	if errors.As(err, &remote) {
		cp := *remote
		cp.Fallback = fallback
		return &cp
	}
	return err
}

func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}
