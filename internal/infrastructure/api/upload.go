package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// UploadImage posts an image as multipart form data and returns its hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		URL      string `json:"url"`
		ImageURL string `json:"image_url"`
	}
	req := request{method: http.MethodPost, path: "/upload/image", body: buf.Bytes(), contentType: mw.FormDataContentType()}
	if err := c.send(ctx, req, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		out.URL = out.ImageURL
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response without url")
	}
	return out.URL, nil
}
