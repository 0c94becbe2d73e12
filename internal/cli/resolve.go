package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// resolveProjectID accepts a full project ID or a unique prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parseDate(flag, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (want YYYY-MM-DD): %w", flag, value, err)
	}
	return d, nil
}

// parseOptionalDate returns nil for "" and "none".
func parseOptionalDate(flag, value string) (*time.Time, error) {
	if value == "" || strings.EqualFold(value, "none") {
		return nil, nil
	}
	d, err := parseDate(flag, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
