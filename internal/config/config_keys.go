// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic. This separation allows config.go to focus on YAML structure
// and loading, while this file handles the CLI interface where config is
// accessed by string keys (e.g., "workspace.max_tabs").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero/false". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"limits.max_title", "limits.max_content",
		"workspace.max_tabs", "workspace.autosave_seconds",
		"ai.enabled",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "limits.max_title":
		return strconv.Itoa(c.MaxTitle()), nil
	case "limits.max_content":
		return strconv.Itoa(c.MaxContent()), nil
	case "workspace.max_tabs":
		return strconv.Itoa(c.MaxTabs()), nil
	case "workspace.autosave_seconds":
		return strconv.Itoa(c.AutosaveSeconds()), nil
	case "ai.enabled":
		return strconv.FormatBool(c.AIEnabled()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "limits.max_title":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_title must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxTitle = &n
	case "limits.max_content":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_content must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxContent = &n
	case "workspace.max_tabs":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: workspace.max_tabs must be a positive integer", ErrInvalidValue)
		}
		c.Workspace.MaxTabs = &n
	case "workspace.autosave_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: workspace.autosave_seconds must be a positive integer", ErrInvalidValue)
		}
		c.Workspace.AutosaveSeconds = &n
	case "ai.enabled":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: ai.enabled must be true or false", ErrInvalidValue)
		}
		b := v == "true"
		c.AI.Enabled = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"author.name":                c.Author.Name,
		"author.email":               c.Author.Email,
		"limits.max_title":           strconv.Itoa(c.MaxTitle()),
		"limits.max_content":         strconv.Itoa(c.MaxContent()),
		"workspace.max_tabs":         strconv.Itoa(c.MaxTabs()),
		"workspace.autosave_seconds": strconv.Itoa(c.AutosaveSeconds()),
		"ai.enabled":                 strconv.FormatBool(c.AIEnabled()),
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "limits.max_title":
		return c.Limits.MaxTitle != nil
	case "limits.max_content":
		return c.Limits.MaxContent != nil
	case "workspace.max_tabs":
		return c.Workspace.MaxTabs != nil
	case "workspace.autosave_seconds":
		return c.Workspace.AutosaveSeconds != nil
	case "ai.enabled":
		return c.AI.Enabled != nil
	default:
		return false
	}
}
