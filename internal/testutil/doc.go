// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by package tests, mostly for
// building in-memory document trees.
package testutil
