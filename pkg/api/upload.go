package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadProfilePhoto sends the photo as multipart form data and returns the
// updated avatar reference.
func (c *Client) UploadProfilePhoto(ctx context.Context, filename string, photo io.Reader) (*ProfilePhoto, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("api: build multipart form: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("api: read photo payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: finalize multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/profile-photo", nil, &body, writer.FormDataContentType())
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "invalid request", cause: err}
	}

	return roundTrip[ProfilePhoto](c, req)
}
