// helpers.go holds small argument-parsing helpers shared by command files.

package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIndex parses a non-negative position argument.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q (expected a non-negative integer)", s)
	}
	return n, nil
}

// parseTags splits a comma-separated tag list, dropping empties.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
