// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "database/sql"

// Conversions between pointer-based request fields and the sql.Null*
// types the store layer works in.

// NullInt64FromPtr returns a valid NullInt64 when ptr is non-nil.
func NullInt64FromPtr(ptr *int64) sql.NullInt64 {
	if ptr == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *ptr, Valid: true}
}

// NullStringFromValue treats the empty string as NULL.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringFromPtr returns a valid NullString when ptr is non-nil. An
// empty non-nil string stays valid, unlike NullStringFromValue.
func NullStringFromPtr(ptr *string) sql.NullString {
	if ptr == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *ptr, Valid: true}
}

// PtrFromNullString returns nil for an invalid NullString, otherwise a
// pointer to a copy of the value.
func PtrFromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
