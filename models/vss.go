// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package models

// VSSItem is one record as held by the versioned storage service: a stable
// key, a monotonically increasing version, and the (encrypted) payload bytes.
type VSSItem struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
	Value   []byte `json:"value"`
}

// KeyVersion is the value-less projection of a VSSItem returned by listing
// endpoints and used as a delete fence on writes.
type KeyVersion struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}

// PutObjectsRequest is the atomic write batch sent to the storage service.
// GlobalVersion carries the writer's device identifier; the service rejects
// the whole batch when the fence no longer matches the device it considers
// primary.
type PutObjectsRequest struct {
	GlobalVersion    int64        `json:"globalVersion"`
	TransactionItems []VSSItem    `json:"transactionItems"`
	DeleteItems      []KeyVersion `json:"deleteItems"`
}

// GetObjectRequest asks the storage service for a single record by key.
type GetObjectRequest struct {
	Key string `json:"key"`
}

// DeleteObjectRequest removes a single record, fenced by the version the
// caller believes is current.
type DeleteObjectRequest struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}

// ListKeyVersionsResponse is the storage service's listing of every key it
// holds for the account, values omitted.
type ListKeyVersionsResponse struct {
	KeyVersions []KeyVersion `json:"keyVersions"`
}
