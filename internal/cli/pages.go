package cli

import (
	"strings"

	"github.com/ksyq12/sitec/internal/output"
	"github.com/ksyq12/sitec/internal/pagetree"
	"github.com/ksyq12/sitec/internal/template"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:     "pages",
	Aliases: []string{"ls"},
	Short:   "List the pages of the page tree",
	Long: `Parse the page-tree description and list every page in build order.

Nothing is written.

Examples:
  sitec pages
  sitec ls --json`,
	Args: cobra.NoArgs,
	RunE: runPages,
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}

type pageListItem struct {
	Path     string          `json:"path"`
	Template string          `json:"template"`
	Data     string          `json:"data,omitempty"`
	Params   template.Params `json:"params,omitempty"`
	Line     int             `json:"line"`

	params string
}

func runPages(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tree, err := pagetree.Load(cfg.DescriptionPath(), cfg.DescriptionFormat())
	if err != nil {
		return err
	}

	items := make([]pageListItem, 0, tree.Count())
	err = tree.Walk(func(sitePath string, page *pagetree.Page) error {
		item := pageListItem{
			Path:     sitePath,
			Template: page.Template,
			Data:     page.Data,
			Params:   page.Params,
			Line:     page.Line(),
		}
		pairs := make([]string, 0, len(page.Params))
		for _, p := range page.Params {
			pairs = append(pairs, p.Name+"="+p.Value)
		}
		item.params = strings.Join(pairs, " ")
		items = append(items, item)
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(items)
	}

	if len(items) == 0 {
		output.Info("No pages described in %s", tree.Source)
		return nil
	}

	headers := []string{"PATH", "TEMPLATE", "DATA", "PARAMS"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		data := item.Data
		if data == "" {
			data = "-"
		}
		rows = append(rows, []string{item.Path, item.Template, data, item.params})
	}

	output.Table(headers, rows)
	return nil
}
