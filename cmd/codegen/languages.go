package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/spf13/cobra"
)

type languageRow struct {
	Name       string   `json:"name"`
	Extension  string   `json:"extension"`
	CommonUses []string `json:"common_uses"`
	Frameworks []string `json:"frameworks"`
}

func newLanguagesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := domain.DefaultProfiles()
			rows := make([]languageRow, 0, len(profiles.Languages()))
			for _, lang := range profiles.Languages() {
				p, _ := profiles.Lookup(lang)
				rows = append(rows, languageRow{
					Name:       string(lang),
					Extension:  p.Extension,
					CommonUses: p.CommonUses,
					Frameworks: p.Frameworks,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tEXT\tCOMMON USES\tFRAMEWORKS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Extension,
					strings.Join(r.CommonUses, ", "), strings.Join(r.Frameworks, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
