// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// status.go - Status command for sugarai.
//
// Command: sugarai status  (alias: s)
// Short:   Show service reachability, credentials, and settings
//
// Examples:
//
//	sugarai status
//	sugarai status --json
//
// The service section probes the health endpoint with a short timeout
// so the command stays fast even when the service is down.

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/ui/components"
)

// statusProbeTimeout caps the health probe. A status command that
// hangs for the full request timeout would be useless for diagnosing
// a down service.
const statusProbeTimeout = 3 * time.Second

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(14)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// HandleStatus prints a snapshot of the CLI's world: whether the
// Sugar-AI service answers, whether a key is configured, the active
// settings, and how many sessions are saved.
func HandleStatus(args Args) error {
	cfg := config.Global()

	if args.JSON {
		data := StatusData{
			Service:     collectServiceStatus(cfg),
			Credentials: collectCredentialStatus(cfg),
			Settings:    collectSettingsStatus(cfg),
			Sessions:    collectSessionStatus(),
		}
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("Sugar-AI Status"))
	fmt.Println(RenderSeparator())

	fmt.Println(SectionStyle.Render("Service"))
	svc := collectServiceStatus(cfg)
	printStatusLine("URL", svc.BaseURL)
	if svc.Reachable {
		fmt.Printf("  %s%s %s\n", statusLabelStyle.Render("Health"),
			RenderStatus("ok"),
			DimStyle.Render(fmt.Sprintf("(%d ms)", svc.LatencyMs)))
	} else {
		fmt.Printf("  %s%s %s\n", statusLabelStyle.Render("Health"),
			RenderStatus("fail"),
			DimStyle.Render(svc.Error))
	}

	fmt.Println(SectionStyle.Render("Credentials"))
	cred := collectCredentialStatus(cfg)
	if cred.Configured {
		printStatusLine("API key", components.KeyStateConfigured)
		printStatusLine("Fingerprint", cred.Fingerprint)
	} else {
		printStatusLine("API key", components.KeyStateMissing)
	}

	fmt.Println(SectionStyle.Render("Settings"))
	set := collectSettingsStatus(cfg)
	modeName := set.DefaultMode
	if mode, ok := model.GetMode(set.DefaultMode); ok {
		modeName = mode.Name
	}
	printStatusLine("Mode", modeName)
	printStatusLine("Theme", set.Theme)
	printStatusLine("Timeout", fmt.Sprintf("%ds", set.TimeoutSecs))

	fmt.Println(SectionStyle.Render("Sessions"))
	sess := collectSessionStatus()
	printStatusLine("Saved", strconv.Itoa(sess.Count))
	if sess.Directory != "" {
		printStatusLine("Directory", sess.Directory)
	}

	return nil
}

func printStatusLine(label, value string) {
	fmt.Printf("  %s%s\n", statusLabelStyle.Render(label), statusValueStyle.Render(value))
}

// ===== COLLECTORS =====

// collectServiceStatus probes the service health endpoint and measures
// round-trip latency.
func collectServiceStatus(cfg *config.Config) StatusServiceInfo {
	info := StatusServiceInfo{BaseURL: cfg.Service.BaseURL}

	client := newServiceClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()

	start := time.Now()
	if err := client.Health(ctx); err != nil {
		info.Error = err.Error()
		return info
	}
	info.Reachable = true
	info.LatencyMs = time.Since(start).Milliseconds()
	return info
}

func collectCredentialStatus(cfg *config.Config) StatusCredentialsInfo {
	info := StatusCredentialsInfo{Configured: cfg.IsConfigured()}
	if info.Configured {
		info.Fingerprint = newServiceClient(cfg).KeyFingerprint()
	}
	return info
}

func collectSettingsStatus(cfg *config.Config) StatusSettingsInfo {
	return StatusSettingsInfo{
		DefaultMode: cfg.Service.DefaultMode,
		Theme:       cfg.UI.Theme,
		TimeoutSecs: cfg.Service.TimeoutSecs,
	}
}

func collectSessionStatus() StatusSessionsInfo {
	var info StatusSessionsInfo
	if dir, err := config.SessionsDir(); err == nil {
		info.Directory = dir
	}

	store, err := storage.NewSessionStore()
	if err != nil {
		return info
	}
	metas, err := store.List()
	if err != nil {
		return info
	}
	info.Count = len(metas)
	return info
}
