package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/pagination"
	"github.com/rshade/lectern/internal/portal"
	"github.com/rshade/lectern/internal/tui"
)

// errNotInteractive is returned by --interactive outside a terminal.
var errNotInteractive = errors.New("--interactive requires a terminal")

// axisFlag declares a categorical filter flag of a list command.
type axisFlag struct {
	// name is the flag name, e.g. "status".
	name string
	// axis is the pagination extra-filter key. Empty means the primary category.
	axis  string
	usage string
}

// listFlags holds the flags shared by every list command.
type listFlags struct {
	params      pagination.Params
	search      string
	axes        map[string]*string
	output      string
	interactive bool
}

// addListFlags registers the common listing flags plus one flag per axis.
func addListFlags(cmd *cobra.Command, f *listFlags, axes ...axisFlag) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive search term")
	cmd.Flags().IntVar(&f.params.Page, "page", pagination.DefaultPage,
		"page to show; pages past the end show the last page")
	cmd.Flags().IntVar(&f.params.PageSize, "page-size", 0,
		fmt.Sprintf("items per page (max %d, 0 = listing default)", pagination.MaxPageSize))
	cmd.Flags().StringVar(&f.params.Sort, "sort", "", "sort expression, e.g. date:desc or title-asc")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format: table, json, ndjson or yaml")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "browse the listing interactively")

	f.axes = make(map[string]*string, len(axes))
	for _, a := range axes {
		f.axes[a.axis] = cmd.Flags().String(a.name, pagination.AllValue, a.usage)
	}
}

// listing describes how a list command loads and renders one portal listing.
type listing[T any] struct {
	title   string
	config  pagination.Config[T]
	columns []tui.Column[T]
	detail  func(T) string

	// categories are the primary filter values offered interactively.
	categories []string

	fetchPage portal.ServerFetcher[T]
	fetchAll  portal.CollectionFetcher[T]
}

// newListState builds the listing state with the flags applied.
func newListState[T any](f *listFlags, l listing[T]) (*pagination.State[T], error) {
	if err := f.params.Validate(); err != nil {
		return nil, err
	}

	cfg := l.config
	if f.params.PageSize > 0 {
		cfg.PageSize = f.params.PageSize
	}
	st, err := pagination.New(cfg)
	if err != nil {
		return nil, err
	}

	st.SetSearchTerm(strings.TrimSpace(f.search))
	for axis, value := range f.axes {
		if axis == "" {
			st.SetCategoricalFilter(*value)
		} else {
			st.SetExtraFilter(axis, *value)
		}
	}

	if f.params.Sort != "" {
		field, order, err := pagination.ParseSortExpression(f.params.Sort)
		if err != nil {
			return nil, err
		}
		want := pagination.SortCriteria{Field: field, Order: order}
		if !st.SetSort(field, order) && st.Sort() != want {
			return nil, fmt.Errorf("%w %q: use one of %s",
				pagination.ErrInvalidSortField, field, strings.Join(st.SortFields(), ", "))
		}
	}
	return st, nil
}

// loadPage fetches the listing and moves to page want, clamped to the last page.
func loadPage[T any](ctx context.Context, st *pagination.State[T], l listing[T], want int) (pagination.Page[T], error) {
	if st.Mode() == pagination.ServerSide {
		st.Reload()
		page, err := portal.Settle(ctx, st, l.fetchPage)
		if err != nil || want <= page.State.CurrentPage {
			return page, err
		}
		if !st.GoToPage(min(want, page.State.TotalPages)) {
			return page, nil
		}
		return portal.Settle(ctx, st, l.fetchPage)
	}

	page, err := portal.Load(ctx, st, l.fetchAll)
	if err != nil || want <= page.State.CurrentPage {
		return page, err
	}
	st.GoToPage(min(want, page.State.TotalPages))
	return st.Page(), nil
}

// runListing executes a list command: it applies the flags, then either
// renders one page or hands the state to the interactive view.
func runListing[T any](cmd *cobra.Command, f *listFlags, ps *portalSession, l listing[T]) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	st, err := newListState(f, l)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	logger.Debug().Ctx(ctx).
		Str("listing", l.title).
		Str("mode", st.Mode().String()).
		Str("criteria", tui.Criteria(st.Filter(), st.Sort())).
		Msg("loading listing")

	if f.interactive {
		return runInteractive(cmd, ps, st, l)
	}

	page, err := loadPage(ctx, st, l, f.params.Page)
	if err != nil {
		return fmt.Errorf("loading %s: %w", strings.ToLower(l.title), err)
	}
	return renderPage(cmd.OutOrStdout(), format, outputMode(cmd), st, page, l.columns)
}

// runInteractive runs the list view until the user quits.
func runInteractive[T any](cmd *cobra.Command, ps *portalSession, st *pagination.State[T], l listing[T]) error {
	if outputMode(cmd) != tui.OutputModeInteractive {
		return errNotInteractive
	}

	ctx := cmd.Context()
	model, err := tui.NewListModel(ctx, tui.ListOptions[T]{
		Title:          l.title,
		State:          st,
		Columns:        l.columns,
		Categories:     l.categories,
		FetchPage:      l.fetchPage,
		FetchAll:       l.fetchAll,
		Detail:         l.detail,
		SearchDebounce: ps.cfg.UI.SearchDebounce(),
		CacheSize:      ps.cfg.Cache.MemoryEntries,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err = program.Run(); err != nil {
		return fmt.Errorf("running interactive view: %w", err)
	}
	return model.Err()
}

// listCommand describes a list subcommand.
type listCommand[T any] struct {
	use     string
	short   string
	example string
	args    cobra.PositionalArgs
	axes    []axisFlag
	build   func(ps *portalSession, args []string) listing[T]
}

// newListCmd builds a cobra command that runs the listing returned by lc.build.
func newListCmd[T any](lc listCommand[T]) *cobra.Command {
	var f listFlags

	args := lc.args
	if args == nil {
		args = cobra.NoArgs
	}

	cmd := &cobra.Command{
		Use:     lc.use,
		Short:   lc.short,
		Example: lc.example,
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}
			return runListing(cmd, &f, ps, lc.build(ps, args))
		},
	}

	addListFlags(cmd, &f, lc.axes...)
	return cmd
}
