package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Asset is what the media service hands back for a stored file. PublicID is
// the handle used to delete the file later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{baseURL: baseURL, client: client}
}

/* Uploads a file to the media service and returns the stored asset. */
func (m *Client) Upload(ctx context.Context, fileName string, content io.Reader) (Asset, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Asset{}, fmt.Errorf("uploading file (%s) to media service: %w", fileName, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return Asset{}, fmt.Errorf("uploading file (%s) to media service: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return Asset{}, fmt.Errorf("uploading file (%s) to media service: %w", fileName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/upload", body)
	if err != nil {
		return Asset{}, fmt.Errorf("uploading file (%s) to media service: %w", fileName, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("uploading file (%s) to media service: %w", fileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Asset{}, NewErrMediaRequestFailed(resp.StatusCode)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return Asset{}, fmt.Errorf("decoding media service response: %w", err)
	}

	return asset, nil
}

/* Removes a stored asset from the media service. */
func (m *Client) Delete(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, m.baseURL+"/assets/"+url.PathEscape(publicID), nil)
	if err != nil {
		return fmt.Errorf("deleting asset (%s) on media service: %w", publicID, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("deleting asset (%s) on media service: %w", publicID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return NewErrMediaRequestFailed(resp.StatusCode)
	}

	return nil
}

type ErrMediaRequestFailed struct {
	statusCode int
}

func (e ErrMediaRequestFailed) Error() string {
	return fmt.Sprintf("media service wrong response - want: 2xx, got: %d", e.statusCode)
}

func NewErrMediaRequestFailed(statusCode int) ErrMediaRequestFailed {
	return ErrMediaRequestFailed{statusCode: statusCode}
}
