// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client runtime.
//
// It wires the full sync, realtime reconciliation and the periodic sync
// job into a single process lifecycle, and prints progress and summaries
// to the terminal.
package client
