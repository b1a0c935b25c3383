// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// RenderBuildInfo renders the build metadata block printed on startup.
// Missing values are shown as N/A.
func RenderBuildInfo(name string, info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString("Build version: ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString("Build date: ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString("\n")
	b.WriteString("Build commit: ")
	b.WriteString(valueOrNA(info.BuildCommit()))

	return b.String()
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
