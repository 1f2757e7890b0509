package listing

// PageLink is one entry of the pagination control; Ellipsis entries carry no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

const maxPlainLinks = 7

// Window lays out the pagination control: all pages when there are at most
// seven, otherwise the first and last page around a three page window.
func Window(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	link := func(n int) PageLink { return PageLink{Number: n, Active: n == current} }

	if total <= maxPlainLinks {
		links := make([]PageLink, 0, total)
		for i := 1; i <= total; i++ {
			links = append(links, link(i))
		}
		return links
	}

	links := []PageLink{link(1)}
	if current > 3 {
		links = append(links, PageLink{Ellipsis: true})
	}
	start := max(2, current-1)
	end := min(total-1, current+1)
	if current <= 3 {
		end = min(total-1, 4)
	}
	if current >= total-2 {
		start = max(2, total-3)
	}
	for i := start; i <= end; i++ {
		links = append(links, link(i))
	}
	if current < total-2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	return append(links, link(total))
}
