package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

// addDetailFlags registers the edit flags. Only use cases and tasks carry notes.
func addDetailFlags(cmd *cobra.Command, withNotes bool) {
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	if withNotes {
		cmd.Flags().String("notes", "", "New important notes")
	}
}

// detailsFromFlags sets only the fields whose flags were passed, so an
// explicit empty --description clears it.
func detailsFromFlags(cmd *cobra.Command) (domain.Details, error) {
	var d domain.Details
	var names []string
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"title", &d.Title},
		{"description", &d.Description},
		{"notes", &d.ImportantNotes},
	} {
		flag := cmd.Flags().Lookup(f.name)
		if flag == nil {
			continue
		}
		names = append(names, "--"+f.name)
		if flag.Changed {
			v := flag.Value.String()
			*f.dst = &v
		}
	}
	if d.IsEmpty() {
		return d, fmt.Errorf("nothing to edit: pass %s", strings.Join(names, ", "))
	}
	return d, nil
}
