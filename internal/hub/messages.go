// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package hub

import "encoding/json"

// Wire message types. Requests and replies share an envelope and are matched
// by id; notifications carry no id.
const (
	msgGetCurrentMaster   = "getCurrentMaster"
	msgDeviceMasterSignal = "deviceMasterSignal"
	msgMasterUpdated      = "masterUpdated"

	errUnauthorized = "unauthorized"
)

// envelope is the single JSON frame format on the hub socket.
type envelope struct {
	ID     string          `json:"id,omitempty"`
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type currentMasterResult struct {
	MasterDeviceID *int64 `json:"masterDeviceId"`
}

type masterSignalParams struct {
	DeviceID int64 `json:"deviceId"`
	Active   bool  `json:"active"`
}

type masterSignalResult struct {
	Accepted bool `json:"accepted"`
}
