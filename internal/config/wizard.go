package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to statboard! Let's configure your profiles.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Handle.
	handlePrompt := promptui.Prompt{
		Label:   "Profile handle",
		Default: cfg.Handle,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("handle is required")
			}
			return nil
		},
	}
	handle, err := handlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("handle: %w", err)
	}
	cfg.Handle = strings.TrimSpace(handle)

	// 2. Providers.
	var sources []SourceConfig
	for _, src := range DefaultSources() {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Show %s stats", src.Name),
			IsConfirm: true,
			Default:   "y",
		}
		if _, err := confirm.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				continue
			}
			return nil, fmt.Errorf("%s selection: %w", src.Name, err)
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, errors.New("at least one source is required")
	}
	cfg.Sources = sources

	// 3. Refresh interval.
	refreshPrompt := promptui.Prompt{
		Label:   "Server refresh interval (0 disables)",
		Default: cfg.RefreshInterval,
		Validate: func(s string) error {
			if s == "0" {
				return nil
			}
			_, err := time.ParseDuration(s)
			return err
		},
	}
	refresh, err := refreshPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("refresh interval: %w", err)
	}
	cfg.RefreshInterval = refresh

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return errors.New("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Webhooks.
	hookPrompt := promptui.Prompt{
		Label:   "Webhook URLs (comma-separated, leave blank for none)",
		Default: "",
	}
	hooks, err := hookPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("webhooks: %w", err)
	}
	cfg.Webhooks = splitAndTrim(hooks)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
