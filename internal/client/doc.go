// SPDX-License-Identifier: Apache-2.0

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI flows, client services, and background
// synchronization into a single process lifecycle.
package client
