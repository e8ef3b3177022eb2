package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/dataset"
	"github.com/charmbracelet/vlist/internal/log"
	"github.com/charmbracelet/vlist/internal/virtual"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// WindowItem is one materialized row of a WindowReport.
type WindowItem struct {
	Index  int     `json:"index" yaml:"index"`
	Row    int     `json:"row" yaml:"row"`
	Height float64 `json:"height" yaml:"height"`
	Label  string  `json:"label" yaml:"label"`
}

// WindowReport describes the window computed for a fixed geometry.
type WindowReport struct {
	Rows          int          `json:"rows" yaml:"rows"`
	Viewport      float64      `json:"viewport" yaml:"viewport"`
	Offset        float64      `json:"offset" yaml:"offset"`
	Overscan      int          `json:"overscan" yaml:"overscan"`
	Start         int          `json:"start" yaml:"start"`
	End           int          `json:"end" yaml:"end"`
	LeadingOffset float64      `json:"leading_offset" yaml:"leading_offset"`
	BlockExtent   float64      `json:"block_extent" yaml:"block_extent"`
	TotalExtent   float64      `json:"total_extent" yaml:"total_extent"`
	Items         []WindowItem `json:"items,omitempty" yaml:"items,omitempty"`
}

type windowOptions struct {
	viewport  float64
	scroll    float64
	scrollTo  int
	listItems bool
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Print the window for a given geometry",
	Long: heredoc.Doc(`
		Compute the materialized window of the configured list for a viewport
		of the given height, after scrolling to an offset or to an item.

		Nothing is drawn: the result is the range of rendered rows and the
		offsets that keep the scroll geometry of the whole list.
	`),
	Example: heredoc.Doc(`
		# Window of the default list for a 24 lines viewport
		vlist window

		# 100000 rows of 60 pixels in a 300 pixels viewport, scrolled to row 100
		vlist window --items 100000 --height 60 --viewport 300 --overscan 10 --scroll-to 100

		# Variable heights, listing the rendered rows as JSON
		vlist window --heights 1,2,3 --scroll 40 --list --format json
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Options.Debug {
			log.Console(cmd.ErrOrStderr(), true)
		}

		var opts windowOptions
		opts.viewport, _ = cmd.Flags().GetFloat64("viewport")
		opts.scroll, _ = cmd.Flags().GetFloat64("scroll")
		opts.scrollTo, _ = cmd.Flags().GetInt("scroll-to")
		opts.listItems, _ = cmd.Flags().GetBool("list")
		format, _ := cmd.Flags().GetString("format")

		report, err := computeWindow(cfg, opts)
		if err != nil {
			return err
		}
		return formatWindow(cmd.OutOrStdout(), report, format)
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)
	windowCmd.Flags().Float64("viewport", 24, "Viewport height")
	windowCmd.Flags().Float64("scroll", 0, "Scroll offset")
	windowCmd.Flags().Int("scroll-to", -1, "Scroll so that this row is at the top (overrides --scroll)")
	windowCmd.Flags().Bool("list", false, "Include the rendered rows")
	windowCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml, markdown)")
}

// headlessContainer is a scroll container without a screen. It clamps the
// offset to the laid out extent the way a browser clamps scrollTop.
type headlessContainer struct {
	offset, extent, total float64
}

func (c *headlessContainer) ScrollOffset() float64   { return c.offset }
func (c *headlessContainer) ViewportExtent() float64 { return c.extent }

func (c *headlessContainer) SetScrollOffset(offset float64) {
	c.offset = min(max(0, offset), max(0, c.total-c.extent))
}

func (c *headlessContainer) SetLayout(blockExtent, leadingMargin float64) {
	c.total = blockExtent + leadingMargin
	c.SetScrollOffset(c.offset)
}

func computeWindow(cfg *config.Config, opts windowOptions) (WindowReport, error) {
	if opts.viewport <= 0 {
		return WindowReport{}, fmt.Errorf("viewport must be positive, got %s", formatFloat(opts.viewport))
	}
	rows := dataset.Filter(dataset.Generate(cfg.List.Items), cfg.List.Filter)
	if opts.scrollTo > len(rows) {
		return WindowReport{}, fmt.Errorf("scroll-to %d is out of range [0, %d]", opts.scrollTo, len(rows))
	}

	c := &headlessContainer{extent: opts.viewport}
	engineOpts := []virtual.Option[dataset.Row]{
		virtual.WithHeight(dataset.Height(cfg.List)),
		virtual.WithOverscan[dataset.Row](cfg.Overscan()),
		virtual.WithContent[dataset.Row](virtual.Static[virtual.Content](c)),
	}
	if cfg.List.PrefixSums {
		engineOpts = append(engineOpts, virtual.WithPrefixSums[dataset.Row]())
	}
	e := virtual.New(rows, virtual.Static[virtual.Container](c), engineOpts...)
	defer e.Close()

	e.Resize(virtual.Size{Width: 1, Height: opts.viewport})
	if opts.scrollTo >= 0 {
		e.ScrollTo(opts.scrollTo)
	} else if opts.scroll > 0 {
		c.SetScrollOffset(opts.scroll)
		e.HandleScroll()
	}

	w, ok := e.Window()
	if !ok {
		return WindowReport{}, fmt.Errorf("no window computed")
	}
	report := WindowReport{
		Rows:          len(rows),
		Viewport:      opts.viewport,
		Offset:        c.offset,
		Overscan:      cfg.Overscan(),
		Start:         w.Start,
		End:           w.End,
		LeadingOffset: w.LeadingOffset,
		BlockExtent:   w.BlockExtent(),
		TotalExtent:   w.TotalExtent,
	}
	if opts.listItems {
		for _, item := range w.Items {
			report.Items = append(report.Items, WindowItem{
				Index:  item.Index,
				Row:    item.Data.N,
				Height: e.HeightOf(item.Index),
				Label:  item.Data.Label,
			})
		}
	}
	return report, nil
}

func formatWindow(w io.Writer, report WindowReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return formatWindowJSON(w, report)
	case "yaml":
		return formatWindowYAML(w, report)
	case "markdown", "md":
		return formatWindowMarkdown(w, report)
	case "text":
		return formatWindowText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatWindowJSON(w io.Writer, report WindowReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formatWindowYAML(w io.Writer, report WindowReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func formatWindowText(w io.Writer, report WindowReport) error {
	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "%-9s %s\n", name, value)
	}
	field("rows", strconv.Itoa(report.Rows))
	field("viewport", formatFloat(report.Viewport))
	field("offset", formatFloat(report.Offset))
	field("overscan", strconv.Itoa(report.Overscan))
	field("window", fmt.Sprintf("%d-%d (%d rendered)", report.Start, report.End, report.End-report.Start))
	field("leading", formatFloat(report.LeadingOffset))
	field("block", formatFloat(report.BlockExtent))
	field("total", formatFloat(report.TotalExtent))
	for _, item := range report.Items {
		fmt.Fprintf(&b, "%8d  %4s  %s\n", item.Index, formatFloat(item.Height), item.Label)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatWindowMarkdown(w io.Writer, report WindowReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Window %d-%d\n\n", report.Start, report.End)
	fmt.Fprintf(&b, "- **Rows**: %d\n", report.Rows)
	fmt.Fprintf(&b, "- **Viewport**: %s\n", formatFloat(report.Viewport))
	fmt.Fprintf(&b, "- **Offset**: %s\n", formatFloat(report.Offset))
	fmt.Fprintf(&b, "- **Overscan**: %d\n", report.Overscan)
	fmt.Fprintf(&b, "- **Leading offset**: %s\n", formatFloat(report.LeadingOffset))
	fmt.Fprintf(&b, "- **Block extent**: %s\n", formatFloat(report.BlockExtent))
	fmt.Fprintf(&b, "- **Total extent**: %s\n", formatFloat(report.TotalExtent))
	if len(report.Items) > 0 {
		b.WriteString("\n| Index | Row | Height | Label |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, item := range report.Items {
			fmt.Fprintf(&b, "| %d | %d | %s | %s |\n", item.Index, item.Row, formatFloat(item.Height), item.Label)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
