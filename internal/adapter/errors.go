// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("version conflict")
	ErrInternalServerError = errors.New("internal server error")
)
