package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

const classifyErrorMessage = "Classification failed"

type ClassPrediction struct {
	Class      string `json:"class"`
	Confidence Number `json:"confidence"`
	Recyclable bool   `json:"recyclable"`
}

// Classification is the waste classifier's verdict for an image.
type Classification struct {
	Prediction     ClassPrediction   `json:"prediction"`
	AllPredictions []ClassPrediction `json:"allPredictions"`
}

// ClassifyWaste uploads an image as the multipart field "image".
func (c *Client) ClassifyWaste(ctx context.Context, filename string, image io.Reader) (*Classification, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var res Classification
	err = c.do(ctx, call{
		op:          "waste.classify",
		method:      http.MethodPost,
		path:        "/classify-waste",
		rawBody:     &buf,
		contentType: mw.FormDataContentType(),
		fallback:    classifyErrorMessage,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res, nil
}
