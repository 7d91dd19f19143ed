// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// setup.go - First-run setup wizard.
//
// Command: sugarai setup
// Short:   Configure the API key, service URL, and answer mode
//
// SECURITY: The API key is read with terminal echo disabled and is
// never printed back; confirmations show a fingerprint instead.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
)

// =============================================================================
// PROMPT HELPERS
// =============================================================================
// Shared by the wizard, the chat /key command, and the sessions
// delete confirmation.

var (
	inputReader = bufio.NewReader(os.Stdin)
	inputMutex  sync.Mutex
)

// setupPromptInput reads one trimmed line from stdin.
func setupPromptInput(prompt string) (string, error) {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Print(prompt)
	input, err := inputReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptInputWithDefault shows the default in brackets and returns it
// when the user just presses Enter.
func promptInputWithDefault(prompt, def string) (string, error) {
	display := prompt
	if def != "" {
		display = fmt.Sprintf("%s [%s]", prompt, def)
	}
	input, err := setupPromptInput(display + ": ")
	if err != nil {
		return "", err
	}
	if input == "" {
		return def, nil
	}
	return input, nil
}

// promptSecure reads a secret with terminal echo disabled.
func promptSecure(prompt string) (string, error) {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	if !strings.HasSuffix(prompt, ": ") {
		prompt += ": "
	}
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// promptYesNo asks a yes/no question; Enter picks the default.
func promptYesNo(prompt string, defaultYes bool) (bool, error) {
	suffix := " [Y/n]: "
	if !defaultYes {
		suffix = " [y/N]: "
	}
	input, err := setupPromptInput(prompt + suffix)
	if err != nil {
		return false, err
	}
	if input == "" {
		return defaultYes, nil
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return defaultYes, nil
	}
}

// promptChoice shows numbered options and returns the chosen index.
func promptChoice(prompt string, options []string, defaultIndex int) (int, error) {
	fmt.Println(prompt)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	input, err := setupPromptInput(fmt.Sprintf("Choice [%d]: ", defaultIndex+1))
	if err != nil {
		return 0, err
	}
	if input == "" {
		return defaultIndex, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(options) {
		fmt.Println(WarningStyle.Render("Invalid choice, using the default."))
		return defaultIndex, nil
	}
	return n - 1, nil
}

// spinner runs fn while animating a progress indicator on one line.
func spinner(message string, fn func() error) error {
	done := make(chan struct{})
	errChan := make(chan error, 1)

	go func() {
		errChan <- fn()
		close(done)
	}()

	spinChars := []rune{'|', '/', '-', '\\'}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-done:
			err := <-errChan
			if err != nil {
				fmt.Printf("\r%s... %s\n", message, ErrorStyle.Render("X"))
			} else {
				fmt.Printf("\r%s... %s\n", message, SuccessStyle.Render("Done"))
			}
			return err
		case <-ticker.C:
			fmt.Printf("\r%s... %c", message, spinChars[i%len(spinChars)])
			i++
		}
	}
}

// =============================================================================
// WIZARD
// =============================================================================

// HandleSetup runs the first-run wizard.
func HandleSetup(args Args) error {
	if err := RequiresTTY("run the setup wizard"); err != nil {
		return err
	}

	cfg := config.Global().Clone()

	fmt.Println("Sugar-AI Setup Wizard")
	fmt.Println(strings.Repeat("=", 21))
	fmt.Println()
	if dir, err := config.ConfigDir(); err == nil {
		fmt.Println("Your key and preferences are stored under:")
		fmt.Println("  " + dir)
		fmt.Println()
	}

	// Step 1: API key
	fmt.Println("Step 1: API key")
	fmt.Println(strings.Repeat("-", 15))
	if cfg.IsConfigured() {
		fmt.Printf("A key is already configured (%s).\n", maskAPIKey(cfg.APIKey))
	} else {
		fmt.Println("Ask a Sugar Labs mentor for a Sugar-AI key if you do not have one.")
	}
	key, err := promptSecure("Sugar-AI API key (leave empty to keep current)")
	if err != nil {
		return WrapError(err, "reading API key")
	}
	if key != "" {
		cfg.APIKey = key
	}

	// Step 2: Service URL
	fmt.Println()
	fmt.Println("Step 2: Service")
	fmt.Println(strings.Repeat("-", 15))
	baseURL, err := promptInputWithDefault("Service URL", cfg.Service.BaseURL)
	if err != nil {
		return WrapError(err, "reading service URL")
	}
	cfg.Service.BaseURL = baseURL

	// Step 3: Default answer mode
	fmt.Println()
	fmt.Println("Step 3: Answer mode")
	fmt.Println(strings.Repeat("-", 19))
	ragMode := model.Modes["rag"]
	llmMode := model.Modes["llm"]
	options := []string{
		ragMode.Name + " - " + ragMode.Description,
		llmMode.Name + " - " + llmMode.Description,
	}
	defaultIndex := 0
	if cfg.Service.DefaultMode == llmMode.ID {
		defaultIndex = 1
	}
	idx, err := promptChoice("Default answer mode:", options, defaultIndex)
	if err != nil {
		return WrapError(err, "reading mode choice")
	}
	if idx == 1 {
		cfg.Service.DefaultMode = llmMode.ID
	} else {
		cfg.Service.DefaultMode = ragMode.ID
	}

	// Persist
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if key != "" {
		if err := config.SaveAPIKey(cfg.APIKey); err != nil {
			return WrapError(err, "saving API key")
		}
	}
	if err := config.SaveSettings(cfg); err != nil {
		return WrapError(err, "saving settings")
	}
	if err := config.ReloadGlobal(); err != nil {
		return WrapError(err, "reloading configuration")
	}

	// Step 4: Verify
	fmt.Println()
	verify, err := promptYesNo("Verify the connection now?", true)
	if err != nil {
		return WrapError(err, "reading answer")
	}
	if verify {
		client := newServiceClient(config.Global())
		healthErr := spinner("Checking service health", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return client.Health(ctx)
		})
		if healthErr != nil {
			fmt.Printf("%s Health check failed: %v\n", WarningStyle.Render("[!]"), healthErr)
			fmt.Println("Your settings were saved anyway. Check the URL and key, then run 'sugarai status'.")
		} else {
			fmt.Println(SuccessStyle.Render("Connected to Sugar-AI."))
		}
	}

	fmt.Println()
	fmt.Printf("%s Run 'sugarai' to start chatting.\n", SuccessStyle.Render("Setup complete."))
	return nil
}
