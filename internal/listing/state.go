package listing

import "sort"

// State is the listing's transient query. Every transition returns a new
// State and leaves the receiver untouched.
type State struct {
	SearchTerm string
	Series     []string
	Sort       SortKey
	Page       int
}

func NewState() State {
	return State{Sort: SortNewest, Page: 1}
}

func (s State) Query() Query {
	set := make(map[string]bool, len(s.Series))
	for _, name := range s.Series {
		set[name] = true
	}
	return Query{SearchTerm: s.SearchTerm, Series: set, Sort: s.Sort, Page: s.Page}
}

func (s State) WithSearch(term string) State {
	s.SearchTerm = term
	s.Page = 1
	return s
}

// WithSeries toggles one series label on or off.
func (s State) WithSeries(name string, on bool) State {
	next := make([]string, 0, len(s.Series)+1)
	for _, existing := range s.Series {
		if existing != name {
			next = append(next, existing)
		}
	}
	if on {
		next = append(next, name)
	}
	sort.Strings(next)
	s.Series = next
	s.Page = 1
	return s
}

func (s State) WithSort(key SortKey) State {
	s.Sort = key
	s.Page = 1
	return s
}

// WithPage rejects pages outside [1, totalPages] and returns s unchanged.
func (s State) WithPage(n, totalPages int) (State, error) {
	if n < 1 || n > totalPages {
		return s, ErrPageOutOfRange
	}
	s.Page = n
	return s, nil
}
