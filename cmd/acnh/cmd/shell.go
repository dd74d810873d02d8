package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/acnh/internal/adapters/web"
	"github.com/corey/acnh/internal/app"
	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
	"github.com/corey/acnh/internal/domain/selection"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search with live results",
	Long: `Each line you type is searched as you submit it; only the newest query's
results are printed. Commands:

  +w <id>   add to wishlist        -w <id>   remove from wishlist
  +c <id>   mark owned             -c <id>   unmark owned
  f <cat>   toggle category filter f         clear filters
  ?         help                   q         quit`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

type shellKind int

const (
	shellQuery shellKind = iota
	shellMutate
	shellFilter
	shellClearFilters
	shellHelp
	shellQuit
	shellEmpty
)

// shellLine is one parsed input line.
type shellLine struct {
	kind shellKind
	arg  string
	list listKind
	op   listOp
}

// parseShellLine classifies an input line. Anything that is not a command
// is a query.
func parseShellLine(line string) shellLine {
	line = strings.TrimSpace(line)
	if line == "" {
		return shellLine{kind: shellEmpty}
	}
	switch line {
	case "q", "quit", "exit":
		return shellLine{kind: shellQuit}
	case "?", "help":
		return shellLine{kind: shellHelp}
	case "f":
		return shellLine{kind: shellClearFilters}
	}

	head, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return shellLine{kind: shellQuery, arg: line}
	}
	switch head {
	case "+w":
		return shellLine{kind: shellMutate, arg: rest, list: wishlistList, op: opAdd}
	case "-w":
		return shellLine{kind: shellMutate, arg: rest, list: wishlistList, op: opRemove}
	case "+c":
		return shellLine{kind: shellMutate, arg: rest, list: catalogList, op: opAdd}
	case "-c":
		return shellLine{kind: shellMutate, arg: rest, list: catalogList, op: opRemove}
	case "f":
		return shellLine{kind: shellFilter, arg: rest}
	}
	return shellLine{kind: shellQuery, arg: line}
}

// marks is the selection as seen by the shell, refreshed after mutations.
type marks struct {
	mu     sync.Mutex
	owned  map[catalog.ID]bool
	wished map[catalog.ID]bool
}

func (m *marks) set(st *web.StateResult) {
	owned := make(map[catalog.ID]bool, len(st.Catalog))
	for _, id := range st.Catalog {
		owned[id] = true
	}
	wished := make(map[catalog.ID]bool, len(st.Wishlist))
	for _, id := range st.Wishlist {
		wished[id] = true
	}
	m.mu.Lock()
	m.owned, m.wished = owned, wished
	m.mu.Unlock()
}

func (m *marks) annotate(results []search.Result) []web.Hit {
	m.mu.Lock()
	defer m.mu.Unlock()
	hits := make([]web.Hit, len(results))
	for i, r := range results {
		hits[i] = web.Hit{Result: r, Owned: m.owned[r.ID], Wished: m.wished[r.ID]}
	}
	return hits
}

// shellView holds the shell's query and filters as reduced selection state.
type shellView struct {
	b  backend
	st selection.State
}

func (v *shellView) apply(a selection.Action) error {
	st, err := v.b.Transient(a)
	if err != nil {
		return err
	}
	v.st = st
	return nil
}

func (v *shellView) clearFilters() error {
	for _, c := range v.st.Filters.Sorted() {
		if err := v.apply(selection.ToggleFilter{Category: c}); err != nil {
			return err
		}
	}
	return nil
}

func runShell(cmd *cobra.Command, args []string) error {
	b, cfg, err := openBackend(false)
	if err != nil {
		return err
	}
	defer b.Close()

	st, err := b.State(nil)
	if err != nil {
		return err
	}
	var m marks
	m.set(st)

	run := func(query string, filters catalog.CategorySet) []search.Result {
		res, err := b.Search(query, filters.Sorted())
		if err != nil {
			printOut(cmd, fmt.Sprintf("%serror:%s %v\n", colorRed, colorReset, err))
			return nil
		}
		out := make([]search.Result, len(res.Results))
		for i, h := range res.Results {
			out[i] = h.Result
		}
		return out
	}

	interactive := !isStdinPipe()
	prompt := func() {
		if interactive {
			fmt.Fprint(cmd.OutOrStdout(), "> ")
		}
	}

	view := &shellView{b: b}
	if err := view.apply(selection.ClearQuery{}); err != nil {
		return err
	}
	var (
		delivered atomic.Uint64
		notify    = make(chan struct{}, 1)
	)
	live := app.NewLiveSearch(run, cfg.Search.Debounce, func(d app.Delivery) {
		hits := m.annotate(d.Results)
		printOut(cmd, formatSearchResult(&web.SearchResult{
			Query:   d.Query,
			Count:   len(hits),
			Results: hits,
		}, ""))
		prompt()
		delivered.Store(d.Seq)
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer live.Stop()

	printOut(cmd, fmt.Sprintf("%s⚡ acnh shell%s │ %s │ ? for help\n", colorBold, colorReset, b.Describe()))

	prompt()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := parseShellLine(scanner.Text())
		switch line.kind {
		case shellEmpty:
		case shellQuit:
			return nil
		case shellHelp:
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
		case shellClearFilters:
			if err := view.clearFilters(); err != nil {
				printOut(cmd, fmt.Sprintf("%serror:%s %v\n", colorRed, colorReset, err))
				break
			}
			printOut(cmd, fmt.Sprintf("%sfilters cleared%s\n", colorGray, colorReset))
		case shellFilter:
			if err := view.apply(selection.ToggleFilter{Category: line.arg}); err != nil {
				printOut(cmd, fmt.Sprintf("%serror:%s %v\n", colorRed, colorReset, err))
				break
			}
			printOut(cmd, fmt.Sprintf("%sfilters: %s%s\n", colorGray, strings.Join(view.st.Filters.Sorted(), ", "), colorReset))
		case shellMutate:
			st, err := b.Mutate(line.list, line.op, line.arg)
			if st != nil {
				m.set(st)
			}
			switch {
			case err != nil:
				printOut(cmd, fmt.Sprintf("%serror:%s %v\n", colorRed, colorReset, err))
			case line.op == opRemove:
				printOut(cmd, fmt.Sprintf("removed from %s #%s\n", line.list, line.arg))
			default:
				printOut(cmd, fmt.Sprintf("added to %s #%s\n", line.list, line.arg))
			}
		case shellQuery:
			if err := view.apply(selection.SetQuery{Text: line.arg}); err != nil {
				printOut(cmd, fmt.Sprintf("%serror:%s %v\n", colorRed, colorReset, err))
				break
			}
			live.Submit(view.st.Query, view.st.Filters)
			continue
		}
		prompt()
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Input closed (piped stdin): let the last query print before exiting.
	deadline := time.After(cfg.Search.Debounce + 2*time.Second)
	for delivered.Load() < live.Latest() {
		select {
		case <-notify:
		case <-deadline:
			return nil
		}
	}
	return nil
}
