// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/models"
)

func newTestClient(t *testing.T, handler http.Handler) RemoteStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewVSSClient(config.ClientAdapter{
		VSSAddress:     srv.URL,
		RequestTimeout: 5 * time.Second,
	}, NewStaticTokenSource("test-token"), logger.Nop())
	require.NoError(t, err)

	return client
}

func TestNewVSSClient_RejectsEmptyAddress(t *testing.T) {
	_, err := NewVSSClient(config.ClientAdapter{}, NewStaticTokenSource(""), logger.Nop())
	require.Error(t, err)
}

func TestGetObject(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/getObject", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req models.GetObjectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Setting_LightningBalance", req.Key)

		json.NewEncoder(w).Encode(models.VSSItem{
			Key:     req.Key,
			Version: 7,
			Value:   []byte("payload"),
		})
	})

	client := newTestClient(t, handler)

	item, err := client.GetObject(context.Background(), "Setting_LightningBalance")

	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Version)
	assert.Equal(t, []byte("payload"), item.Value)
}

func TestGetObject_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such key", http.StatusNotFound)
	})

	client := newTestClient(t, handler)

	_, err := client.GetObject(context.Background(), "missing")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestPutObjects_SendsFenceAndBatch(t *testing.T) {
	var got models.PutObjectsRequest

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/putObjects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)

	err := client.PutObjects(context.Background(),
		[]models.VSSItem{{Key: "Setting_A", Version: 2, Value: []byte("x")}},
		[]models.KeyVersion{{Key: "Payment_p1", Version: 4}},
		int64(9001))

	require.NoError(t, err)
	assert.Equal(t, int64(9001), got.GlobalVersion)
	require.Len(t, got.TransactionItems, 1)
	assert.Equal(t, "Setting_A", got.TransactionItems[0].Key)
	require.Len(t, got.DeleteItems, 1)
	assert.Equal(t, int64(4), got.DeleteItems[0].Version)
}

func TestPutObjects_ConflictOnStaleFence(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "another device is primary", http.StatusConflict)
	})

	client := newTestClient(t, handler)

	err := client.PutObjects(context.Background(), nil, nil, 1)

	require.ErrorIs(t, err, ErrConflict)
}

func TestPutObjects_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "token rejected", http.StatusUnauthorized)
	})

	client := newTestClient(t, handler)

	err := client.PutObjects(context.Background(), nil, nil, 1)

	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteObject(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deleteObject", r.URL.Path)

		var req models.DeleteObjectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Channel_chan-1", req.Key)
		assert.Equal(t, int64(3), req.Version)
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)

	require.NoError(t, client.DeleteObject(context.Background(), "Channel_chan-1", 3))
}

func TestListKeyVersions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listKeyVersions", r.URL.Path)
		json.NewEncoder(w).Encode(models.ListKeyVersionsResponse{
			KeyVersions: []models.KeyVersion{
				{Key: "Setting_A", Version: 1},
				{Key: "EncryptionKeyTest", Version: 1},
			},
		})
	})

	client := newTestClient(t, handler)

	versions, err := client.ListKeyVersions(context.Background())

	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare host gets scheme", in: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash trimmed", in: "https://pay.example.com/vss/", want: "https://pay.example.com/vss"},
		{name: "empty rejected", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
