package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/romdo/go-debounce"
	"github.com/rs/zerolog"

	"github.com/rshade/lectern/internal/logging"
	"github.com/rshade/lectern/internal/pagination"
	"github.com/rshade/lectern/internal/portal"
	listview "github.com/rshade/lectern/internal/tui/list"
)

// DefaultSearchDebounce is used when ListOptions.SearchDebounce is zero.
const DefaultSearchDebounce = 300 * time.Millisecond

// chromeHeight is the number of lines around the rows: title, criteria,
// header, footer, status and help.
const chromeHeight = 8

// ListOptions configures a ListModel.
type ListOptions[T any] struct {
	Title   string
	State   *pagination.State[T]
	Columns []Column[T]

	// Categories are the values "f" cycles through. AllValue is prepended when missing.
	Categories []string

	// FetchPage serves a server-side listing; FetchAll a client-side one.
	FetchPage portal.ServerFetcher[T]
	FetchAll  portal.CollectionFetcher[T]

	// Detail renders the selected item. Enter does nothing when nil.
	Detail func(T) string

	SearchDebounce time.Duration

	// CacheSize is the number of server pages kept in memory. Zero disables it.
	CacheSize int

	Logger zerolog.Logger
}

// pageLoadedMsg carries the result of a sequenced server request.
type pageLoadedMsg[T any] struct {
	seq uint64
	res pagination.Result[T]
	err error
}

// collectionLoadedMsg carries a client-side collection.
type collectionLoadedMsg[T any] struct {
	res pagination.Result[T]
	err error
}

// searchSettledMsg fires once typing has paused for the debounce interval.
type searchSettledMsg struct{}

// ListModel is the interactive view of one listing. It owns its State and
// turns key presses into state commands.
type ListModel[T any] struct {
	ctx    context.Context
	opts   ListOptions[T]
	st     *pagination.State[T]
	pages  *portal.CachedFetcher[T]
	logger zerolog.Logger

	state   ViewState
	page    pagination.Page[T]
	rows    *listview.Model[T]
	loading *LoadingState
	err     error
	status  string

	input     textinput.Model
	searching bool
	prevTerm  string

	settled        chan struct{}
	debounced      func()
	cancelDebounce func()
	waiting        bool

	width  int
	height int
}

// NewListModel builds the model. The first load starts in Init.
func NewListModel[T any](ctx context.Context, opts ListOptions[T]) (*ListModel[T], error) {
	if opts.State == nil {
		return nil, errors.New("list model requires a state")
	}
	if len(opts.Columns) == 0 {
		return nil, errors.New("list model requires at least one column")
	}

	m := &ListModel[T]{
		ctx:     ctx,
		opts:    opts,
		st:      opts.State,
		logger:  logging.ComponentLogger(opts.Logger, "tui"),
		state:   ViewStateLoading,
		loading: NewLoadingState("Loading " + strings.ToLower(opts.Title) + "..."),
		input:   newSearchInput(),
		settled: make(chan struct{}, 1),
		width:   defaultWidth,
		height:  defaultHeight,
	}

	switch m.st.Mode() {
	case pagination.ServerSide:
		if opts.FetchPage == nil {
			return nil, errors.New("server-side listing requires FetchPage")
		}
		pages, err := portal.NewCachedFetcher(opts.FetchPage, opts.CacheSize)
		if err != nil {
			return nil, err
		}
		m.pages = pages
	default:
		if opts.FetchAll == nil {
			return nil, errors.New("client-side listing requires FetchAll")
		}
	}

	if !slices.Contains(m.opts.Categories, pagination.AllValue) && len(m.opts.Categories) > 0 {
		m.opts.Categories = append([]string{pagination.AllValue}, m.opts.Categories...)
	}

	wait := opts.SearchDebounce
	if wait <= 0 {
		wait = DefaultSearchDebounce
	}
	m.debounced, m.cancelDebounce = debounce.New(wait, m.signalSettled)

	m.page = m.st.Page()
	m.rows = listview.New(m.page.Items, m.rowsHeight(), m.renderRow)
	return m, nil
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = searchInputCharLimit
	ti.Width = searchInputWidth
	return ti
}

// signalSettled runs on the debounce timer goroutine.
func (m *ListModel[T]) signalSettled() {
	select {
	case m.settled <- struct{}{}:
	default:
	}
}

func (m *ListModel[T]) waitForSearch() tea.Cmd {
	settled := m.settled
	return func() tea.Msg {
		<-settled
		return searchSettledMsg{}
	}
}

// ViewState returns the current screen.
func (m *ListModel[T]) ViewState() ViewState {
	return m.state
}

// Page returns the last rendered page.
func (m *ListModel[T]) Page() pagination.Page[T] {
	return m.page
}

// Err returns the error that ended the session, if any.
func (m *ListModel[T]) Err() error {
	return m.err
}

// Init starts the spinner and the first load.
func (m *ListModel[T]) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.load())
}

// load fetches the collection or reissues the current server query.
func (m *ListModel[T]) load() tea.Cmd {
	if m.st.Mode() == pagination.ClientSide {
		fetch := m.opts.FetchAll
		ctx := m.ctx
		return func() tea.Msg {
			res, err := fetch(ctx)
			return collectionLoadedMsg[T]{res: res, err: err}
		}
	}
	m.pages.Invalidate()
	return m.dispatch(pagination.Reload{})
}

// dispatch applies cmd to the state and schedules the request it issued.
func (m *ListModel[T]) dispatch(cmd pagination.Command) tea.Cmd {
	page, req := m.st.Dispatch(cmd)
	m.setPage(page)
	if req == nil {
		return nil
	}
	return m.fetch(*req)
}

func (m *ListModel[T]) fetch(req pagination.Request) tea.Cmd {
	pages := m.pages
	ctx := m.ctx
	return func() tea.Msg {
		res, err := pages.Fetch(ctx, req.Query)
		return pageLoadedMsg[T]{seq: req.Seq, res: res, err: err}
	}
}

func (m *ListModel[T]) setPage(page pagination.Page[T]) {
	m.page = page
	m.rows.SetItems(page.Items)
}

// Update handles messages.
func (m *ListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetHeight(m.rowsHeight())
		return m, nil
	case pageLoadedMsg[T]:
		return m, m.handlePage(msg)
	case collectionLoadedMsg[T]:
		m.handleCollection(msg)
		return m, nil
	case searchSettledMsg:
		m.waiting = false
		return m, m.dispatch(pagination.SearchChanged{Term: m.input.Value()})
	}

	if m.searching {
		return m, m.handleSearchInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		if isQuit(msg) {
			return m.quit()
		}
		return m, m.loading.Update(msg)
	case ViewStateList:
		return m.handleListKeys(msg)
	case ViewStateDetail:
		return m.handleDetailKeys(msg)
	case ViewStateError:
		return m.handleErrorKeys(msg)
	default:
		return m, nil
	}
}

func (m *ListModel[T]) handlePage(msg pageLoadedMsg[T]) tea.Cmd {
	if msg.err != nil {
		if !m.st.IsLatest(msg.seq) {
			return nil
		}
		m.logger.Warn().Ctx(m.ctx).Err(msg.err).Uint64("seq", msg.seq).Msg("page fetch failed")
		return m.fail(msg.err)
	}
	return m.settle(m.dispatch(pagination.Applied[T]{Seq: msg.seq, Result: msg.res}))
}

func (m *ListModel[T]) handleCollection(msg collectionLoadedMsg[T]) {
	if msg.err != nil {
		m.logger.Warn().Ctx(m.ctx).Err(msg.err).Msg("collection fetch failed")
		m.fail(msg.err)
		return
	}
	m.dispatch(pagination.Refreshed[T]{Items: msg.res.Items, Stale: msg.res.Stale})
	m.settle(nil)
}

// settle leaves the loading screen once a page is in place.
func (m *ListModel[T]) settle(next tea.Cmd) tea.Cmd {
	m.err = nil
	m.status = ""
	if m.page.Stale {
		m.status = "offline: showing cached results"
	}
	if m.state == ViewStateLoading || m.state == ViewStateError {
		m.state = ViewStateList
	}
	return next
}

// fail shows err. A listing that already has a page keeps it and reports the
// error on the status line.
func (m *ListModel[T]) fail(err error) tea.Cmd {
	if errors.Is(err, portal.ErrUnauthorized) || m.state == ViewStateLoading || m.state == ViewStateError {
		m.err = err
		m.state = ViewStateError
		return nil
	}
	m.status = "error: " + err.Error()
	return nil
}

func (m *ListModel[T]) handleSearchInput(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyEnter:
			m.stopSearch()
			return m.dispatch(pagination.SearchChanged{Term: m.input.Value()})
		case keyEsc:
			m.input.SetValue(m.prevTerm)
			m.stopSearch()
			return nil
		case keyCtrlC:
			m.stopSearch()
			_, cmd := m.quit()
			return cmd
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	m.debounced()
	if m.waiting {
		return cmd
	}
	m.waiting = true
	return tea.Batch(cmd, m.waitForSearch())
}

func (m *ListModel[T]) startSearch() tea.Cmd {
	m.searching = true
	m.prevTerm = m.st.Filter().SearchTerm
	m.input.SetValue(m.prevTerm)
	m.input.CursorEnd()
	return m.input.Focus()
}

// stopSearch leaves the search input and releases a pending waiter.
func (m *ListModel[T]) stopSearch() {
	m.searching = false
	m.input.Blur()
	m.cancelDebounce()
	if m.waiting {
		m.signalSettled()
	}
}

func (m *ListModel[T]) handleListKeys(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keySlash:
		return m, m.startSearch()
	case keyFilter:
		return m, m.cycleCategory()
	case keySort:
		return m, m.cycleSort()
	case keyOrder:
		s := m.st.Sort()
		return m, m.dispatch(pagination.SortChanged{Field: s.Field, Order: s.Order.Reverse()})
	case keyLeft, keyPgUp, keyPrevPage:
		return m, m.dispatch(pagination.PrevPage{})
	case keyRight, keyPgDown, keyNextPage:
		return m, m.dispatch(pagination.NextPage{})
	case keyReload:
		m.status = "reloading..."
		return m, m.load()
	case keyEnter:
		if m.opts.Detail != nil && m.rows.SelectedItem() != nil {
			m.state = ViewStateDetail
		}
		return m, nil
	case keyEsc:
		if m.st.Filter().SearchTerm != "" {
			m.input.SetValue("")
			return m, m.dispatch(pagination.SearchChanged{})
		}
		return m, nil
	}
	_, cmd := m.rows.Update(msg)
	return m, cmd
}

func (m *ListModel[T]) handleDetailKeys(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keyEsc:
		m.state = ViewStateList
	}
	return m, nil
}

func (m *ListModel[T]) handleErrorKeys(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case keyQuit, keyCtrlC, keyEsc:
		return m.quit()
	case keyReload:
		if errors.Is(m.err, portal.ErrUnauthorized) {
			return m, nil
		}
		m.state = ViewStateLoading
		return m, tea.Batch(m.loading.Init(), m.load())
	}
	return m, nil
}

func (m *ListModel[T]) quit() (tea.Model, tea.Cmd) {
	m.cancelDebounce()
	if m.waiting {
		m.signalSettled()
	}
	m.state = ViewStateQuitting
	return m, tea.Quit
}

func isQuit(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	return ok && (key.String() == keyQuit || key.String() == keyCtrlC)
}

func (m *ListModel[T]) cycleCategory() tea.Cmd {
	cats := m.opts.Categories
	if len(cats) == 0 {
		return nil
	}
	i := slices.Index(cats, m.st.Filter().Category)
	return m.dispatch(pagination.FilterChanged{Value: cats[(i+1)%len(cats)]})
}

func (m *ListModel[T]) cycleSort() tea.Cmd {
	fields := m.st.SortFields()
	if len(fields) < 2 {
		return nil
	}
	current := m.st.Sort()
	i := slices.Index(fields, current.Field)
	return m.dispatch(pagination.SortChanged{Field: fields[(i+1)%len(fields)], Order: current.Order})
}

func (m *ListModel[T]) rowsHeight() int {
	return max(m.height-chromeHeight, minHeight)
}

func (m *ListModel[T]) renderRow(item T, selected bool) string {
	row := RenderRow(m.opts.Columns, item)
	if selected {
		return TableSelectedStyle.Render(row)
	}
	return row
}

// View renders the current screen.
func (m *ListModel[T]) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + SubtleStyle.Render("[r] Retry  [q] Quit") + "\n"
	case ViewStateDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

func (m *ListModel[T]) renderList() string {
	sections := []string{
		HeaderStyle.Render(strings.ToUpper(m.opts.Title)),
		LabelStyle.Render(Criteria(m.st.Filter(), m.st.Sort())),
		TableHeaderStyle.Render(RenderHeader(m.opts.Columns)),
	}

	if len(m.page.Items) == 0 {
		sections = append(sections, InfoStyle.Render("No items match the current search and filters."))
	} else {
		sections = append(sections, m.rows.View())
	}

	footer := Footer(m.page.State)
	if m.page.Pending {
		footer += "  " + InfoStyle.Render("loading...")
	}
	sections = append(sections, "", ValueStyle.Render(footer))

	if m.status != "" {
		style := WarningStyle
		if strings.HasPrefix(m.status, "error") {
			style = CriticalStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	if m.searching {
		sections = append(sections, "Search: "+m.input.View())
	}
	sections = append(sections, SubtleStyle.Render(listHelp))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ListModel[T]) renderDetail() string {
	item := m.rows.SelectedItem()
	if item == nil || m.opts.Detail == nil {
		return SubtleStyle.Render(detailHelp)
	}
	return BoxStyle.Width(m.width-borderPadding).Render(m.opts.Detail(*item)) + "\n" + SubtleStyle.Render(detailHelp)
}
