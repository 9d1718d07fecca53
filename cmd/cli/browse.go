package main

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"mangaparsers/internal/browse"
	"mangaparsers/pkg/models"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available sources",
	RunE:  runSources,
}

var filtersCmd = &cobra.Command{
	Use:   "filters <source>",
	Short: "Show sort orders and filter options of a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilters,
}

var listCmd = &cobra.Command{
	Use:   "list <source>",
	Short: "List one page of series",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var detailsCmd = &cobra.Command{
	Use:   "details <source> <series-url>",
	Short: "Show a series with its chapters",
	Args:  cobra.ExactArgs(2),
	RunE:  runDetails,
}

var pagesCmd = &cobra.Command{
	Use:   "pages <source> <chapter-url>",
	Short: "List the page images of a chapter",
	Args:  cobra.ExactArgs(2),
	RunE:  runPages,
}

var listArgs struct {
	page    int
	order   string
	query   string
	tags    []string
	exclude []string
	states  []string
	types   []string
}

var detailsArgs struct {
	plain bool
}

func init() {
	listCmd.Flags().IntVarP(&listArgs.page, "page", "p", 1, "page number, starting at 1")
	listCmd.Flags().StringVarP(&listArgs.order, "order", "o", string(models.SortUpdated), "sort order")
	listCmd.Flags().StringVarP(&listArgs.query, "query", "q", "", "search text")
	listCmd.Flags().StringSliceVarP(&listArgs.tags, "tag", "t", nil, "include tag key (repeatable)")
	listCmd.Flags().StringSliceVarP(&listArgs.exclude, "exclude", "x", nil, "exclude tag key (repeatable)")
	listCmd.Flags().StringSliceVar(&listArgs.states, "state", nil, "publication state (repeatable)")
	listCmd.Flags().StringSliceVar(&listArgs.types, "type", nil, "content type (repeatable)")

	detailsCmd.Flags().BoolVar(&detailsArgs.plain, "plain", false, "render the description as plain text")

	RootCmd.AddCommand(sourcesCmd, filtersCmd, listCmd, detailsCmd, pagesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	reg := registry()
	if rootArgs.asJSON {
		return printJSON(cmd, reg.Names())
	}
	for _, p := range reg.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s (page size %d)\n", p.Source(), p.Domain(), p.PageSize())
	}
	return nil
}

func runFilters(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	opts, err := p.FilterOptions(ctx)
	if err != nil {
		return fmt.Errorf("filter options: %w", err)
	}
	if rootArgs.asJSON {
		return printJSON(cmd, opts)
	}

	out := cmd.OutOrStdout()
	caps := p.Capabilities()
	fmt.Fprintf(out, "sort orders: %v\n", p.SortOrders())
	fmt.Fprintf(out, "search: %v  multiple tags: %v  exclusion: %v\n",
		caps.SearchSupported, caps.MultipleTagsSupported, caps.TagsExclusionSupported)
	fmt.Fprintf(out, "states: %v\ntypes: %v\ntags:\n", opts.States, opts.Types)
	for _, t := range opts.Tags {
		fmt.Fprintf(out, "  %s\n", t.Key)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	if listArgs.page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	order, err := models.ParseSortOrder(listArgs.order)
	if err != nil {
		return err
	}
	filter, err := browse.ParseFilter(p.Source(), listArgs.query, listArgs.tags, listArgs.exclude, listArgs.states, listArgs.types)
	if err != nil {
		return err
	}

	items, err := p.List(ctx, listArgs.page, order, filter)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if rootArgs.asJSON {
		return printJSON(cmd, items)
	}
	for _, m := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-10s %s\n", truncate(m.Title, 40), m.State, m.URL)
	}
	return nil
}

func runDetails(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	m, err := p.Details(ctx, browse.MangaRef(p.Source(), args[1]))
	if err != nil {
		return fmt.Errorf("details: %w", err)
	}
	if detailsArgs.plain {
		m.Description = plainText(m.Description)
	}
	if rootArgs.asJSON {
		return printJSON(cmd, m)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n", m.Title, m.PublicURL)
	if len(m.Authors) > 0 {
		fmt.Fprintf(out, "by %s\n", strings.Join(m.Authors, ", "))
	}
	fmt.Fprintf(out, "state: %s  tags: %s\n\n%s\n\n", m.State, tagTitles(m.Tags), m.Description)
	for _, c := range m.Chapters {
		fmt.Fprintf(out, "%8v  %-30s %s\n", c.Number, truncate(c.Title, 30), c.URL)
	}
	return nil
}

func runPages(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	pages, err := p.Pages(ctx, browse.ChapterRef(p.Source(), args[1]))
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}
	if rootArgs.asJSON {
		return printJSON(cmd, pages)
	}
	for _, pg := range pages {
		fmt.Fprintln(cmd.OutOrStdout(), pg.URL)
	}
	return nil
}

// plainText strips markup from an HTML fragment, keeping paragraph breaks.
func plainText(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return strings.TrimSpace(doc.Text())
}

func tagTitles(tags []models.Tag) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Title)
	}
	return strings.Join(out, ", ")
}
