package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"annocheck/internal/diag"
	"annocheck/internal/options"
	"annocheck/internal/suppress"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every problem annocheck can report",
	Long: `Catalog lists the problem codes with their category, the option key that
configures them, the default severity and the @SuppressWarnings token that
silences them. Mandatory problems have no option and cannot be suppressed.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the @SuppressWarnings tokens and the options they cover",
	Args:  cobra.NoArgs,
	RunE:  runTokens,
}

func init() {
	catalogCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	catalogCmd.Flags().String("category", "", "only list problems of this category")
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type catalogEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Option   string `json:"option,omitempty"`
	Severity string `json:"default_severity"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message"`
}

func buildCatalog(category string) []catalogEntry {
	codes := diag.Codes()
	out := make([]catalogEntry, 0, len(codes))
	for _, c := range codes {
		cat := diag.CategoryOf(c).String()
		if category != "" && !strings.EqualFold(category, cat) {
			continue
		}
		entry := catalogEntry{
			ID:       c.ID(),
			Title:    c.Title(),
			Category: cat,
			Severity: options.DefaultSeverity(c.Irritant()).String(),
			Token:    suppress.IrritantToken(c.Irritant()),
			Message:  c.Message(),
		}
		if key, ok := diag.OptionKeyOf(c); ok {
			entry.Option = key.Short()
		}
		out = append(out, entry)
	}
	return out
}

func runCatalog(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	category, err := cmd.Flags().GetString("category")
	if err != nil {
		return fmt.Errorf("failed to get category flag: %w", err)
	}
	entries := buildCatalog(category)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return encodeJSON(out, entries)
	case "pretty":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSEVERITY\tCATEGORY\tOPTION\tTOKEN\tTITLE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Severity, e.Category, dashIfEmpty(e.Option), dashIfEmpty(e.Token), e.Title)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type tokenEntry struct {
	Token   string   `json:"token"`
	Options []string `json:"options"`
}

func buildTokens() []tokenEntry {
	tokens := suppress.Tokens()
	out := make([]tokenEntry, 0, len(tokens))
	for _, tok := range tokens {
		set, ok := suppress.TokenIrritants(tok)
		if !ok {
			continue
		}
		entry := tokenEntry{Token: tok, Options: []string{}}
		for _, irr := range set.Slice() {
			entry.Options = append(entry.Options, irr.OptionKey().Short())
		}
		out = append(out, entry)
	}
	return out
}

func runTokens(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	entries := buildTokens()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return encodeJSON(out, entries)
	case "pretty":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			opts := strings.Join(e.Options, ", ")
			if e.Token == suppress.TokenAll {
				opts = "every suppressible problem"
			}
			fmt.Fprintf(tw, "%s\t%s\n", e.Token, opts)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
