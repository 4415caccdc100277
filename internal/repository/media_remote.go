package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cosecdesk/internal/domain"
)

type MediaRepo struct {
	remote
}

func NewMediaRepository(base remote) *MediaRepo {
	return &MediaRepo{remote: base}
}

// Upload sends one image to the media endpoint and returns its public URL.
func (r *MediaRepo) Upload(ctx context.Context, token string, upload domain.UploadRequest) (string, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return "", err
	}

	mediaType := upload.MediaType
	if mediaType == "" {
		mediaType = domain.MediaTypeProfile
	}

	form := map[string]string{
		"file_name":     upload.File.FileName,
		"file_size":     strconv.Itoa(upload.File.Size()),
		"display_order": strconv.Itoa(upload.DisplayOrder),
		"mime_type":     upload.File.MimeType,
		"media_type":    mediaType,
	}
	if upload.SpecialistID != "" {
		form["specialist_id"] = upload.SpecialistID
	}

	req.SetMultipartFormData(form).
		SetMultipartField(string(upload.File.Slot), upload.File.FileName, upload.File.MimeType, bytesReader(upload.File.Data))

	resp, err := r.execute("upload_media", req, http.MethodPost, "/media")
	if err != nil {
		return "", err
	}

	var result domain.UploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа загрузки: %w", err)
	}
	if result.URL == "" {
		return "", &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			Err:        errors.New("пустой url в ответе загрузки"),
		}
	}
	return result.URL, nil
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
