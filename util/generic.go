// util/generic.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// Select returns a if sel is true and b otherwise; it is a 1:1 replacement
// for the ternary operator, which Go lacks.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}
