// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/models"
)

type vssClient struct {
	client *resty.Client
	tokens TokenSource

	logger *logger.Logger
}

// NewVSSClient constructs the HTTP implementation of [RemoteStore] against the
// versioned storage service at adapterCfg.VSSAddress. The base URL is
// normalised and validated; the bearer token is read from tokens on every
// request so a credential refresh needs no client rebuild.
//
// Returns an error if adapterCfg.VSSAddress is empty or cannot be parsed as a
// valid URL.
func NewVSSClient(adapterCfg config.ClientAdapter, tokens TokenSource, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.VSSAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid vss address: %w", err)
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &vssClient{client: cli, tokens: tokens, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// GetObject implements [RemoteStore]. It POSTs the key to POST /getObject and
// decodes the stored record. Returns [ErrNotFound] (wrapped) on HTTP 404.
func (v *vssClient) GetObject(ctx context.Context, key string) (models.VSSItem, error) {
	resp, err := v.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.GetObjectRequest{Key: key}).
		Post("/getObject")
	if err != nil {
		return models.VSSItem{}, fmt.Errorf("get object request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VSSItem{}, err
	}

	var item models.VSSItem
	if err = json.Unmarshal(resp.Body(), &item); err != nil {
		return models.VSSItem{}, fmt.Errorf("decode get object response: %w", err)
	}

	return item, nil
}

// PutObjects implements [RemoteStore]. It sends the whole batch as one
// POST /putObjects transaction. Returns [ErrConflict] (wrapped) on HTTP 409,
// which the server uses both for stale version fences and for writes from a
// device it no longer considers primary.
func (v *vssClient) PutObjects(ctx context.Context, txItems []models.VSSItem, deleteItems []models.KeyVersion, globalVersion int64) error {
	req := models.PutObjectsRequest{
		GlobalVersion:    globalVersion,
		TransactionItems: txItems,
		DeleteItems:      deleteItems,
	}

	resp, err := v.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/putObjects")
	if err != nil {
		return fmt.Errorf("put objects request: %w", err)
	}

	return mapHTTPError(resp)
}

// DeleteObject implements [RemoteStore]. Returns [ErrNotFound] (wrapped) on
// HTTP 404 and [ErrConflict] (wrapped) when the version fence fails.
func (v *vssClient) DeleteObject(ctx context.Context, key string, version int64) error {
	resp, err := v.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.DeleteObjectRequest{Key: key, Version: version}).
		Post("/deleteObject")
	if err != nil {
		return fmt.Errorf("delete object request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListKeyVersions implements [RemoteStore].
func (v *vssClient) ListKeyVersions(ctx context.Context) ([]models.KeyVersion, error) {
	resp, err := v.authedRequest(ctx).Post("/listKeyVersions")
	if err != nil {
		return nil, fmt.Errorf("list key versions request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var lr models.ListKeyVersionsResponse
	if err = json.Unmarshal(resp.Body(), &lr); err != nil {
		return nil, fmt.Errorf("decode list key versions response: %w", err)
	}

	return lr.KeyVersions, nil
}

func (v *vssClient) authedRequest(ctx context.Context) *resty.Request {
	req := v.client.R().SetContext(ctx)
	if token := v.tokens.AccessToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
