package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"cosecdesk/internal/domain"
	"cosecdesk/pkg/metrics"
)

type remote struct {
	client  *resty.Client
	metrics *metrics.DashboardMetrics
}

type apiError struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Detail  json.RawMessage `json:"detail"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	var detail string
	if len(e.Detail) > 0 && json.Unmarshal(e.Detail, &detail) == nil {
		return detail
	}
	return ""
}

type listEnvelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// request starts an authenticated request. It never touches the network when
// the token is empty.
func (r remote) request(ctx context.Context, token string) (*resty.Request, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return r.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

// execute runs the request and converts transport errors and non-2xx
// answers into *domain.RemoteError.
func (r remote) execute(operation string, req *resty.Request, method, url string) (*resty.Response, error) {
	start := time.Now()
	resp, err := req.Execute(method, url)
	r.metrics.ObserveRemote(operation, time.Since(start).Seconds())

	if err != nil {
		return nil, &domain.RemoteError{Err: err}
	}

	if resp.IsError() || resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		var body apiError
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			Message:    body.text(),
			Err:        errors.New(resp.Status()),
		}
	}

	return resp, nil
}

// decodeSpecialist accepts both a bare record and a {"data": {...}} envelope.
func decodeSpecialist(body []byte) (*domain.Specialist, error) {
	var envelope struct {
		Data *domain.Specialist `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil && envelope.Data.ID != "" {
		return envelope.Data, nil
	}

	var specialist domain.Specialist
	if err := json.Unmarshal(body, &specialist); err != nil {
		return nil, err
	}
	return &specialist, nil
}

// decodeList accepts both a bare array and a {"data": [...]} envelope.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// decodeRecord accepts both a bare object and a {"data": {...}} envelope.
func decodeRecord[T any](body []byte) (*T, error) {
	var envelope struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var record T
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
