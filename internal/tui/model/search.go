package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
)

// SearchFilter is a search input split into the query proper and the
// in:#channel / from:@user filters.
type SearchFilter struct {
	Query   string
	Channel string
	User    string
}

// String renders f back into search input form.
func (f SearchFilter) String() string {
	parts := make([]string, 0, 3)
	if f.Channel != "" {
		parts = append(parts, "in:#"+f.Channel)
	}
	if f.User != "" {
		parts = append(parts, "from:@"+f.User)
	}
	if f.Query != "" {
		parts = append(parts, f.Query)
	}
	return strings.Join(parts, " ")
}

// ParseSearch extracts filters from input. The last in: or from: token of
// each kind wins; everything else is the query, passed through verbatim so
// quoting, "or" and "-term" keep their meaning.
func ParseSearch(input string) SearchFilter {
	var f SearchFilter
	var rest []string
	for _, tok := range tokenize(input) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "in:") && len(tok) > 3:
			f.Channel = strings.TrimPrefix(tok[3:], "#")
		case strings.HasPrefix(lower, "from:") && len(tok) > 5:
			f.User = strings.TrimPrefix(tok[5:], "@")
		default:
			rest = append(rest, tok)
		}
	}
	f.Query = strings.Join(rest, " ")
	return f
}

// tokenize splits on spaces outside double quotes, keeping the quotes.
func tokenize(s string) []string {
	var (
		toks   []string
		cur    strings.Builder
		quoted bool
	)
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// SearchState is the last search and its results.
type SearchState struct {
	Filter  SearchFilter
	Mode    string
	Results []*vaultv1.SearchResult
}

// Search runs input against the archive, resolving an in: channel name to
// its ID.
func (vm *ViewModel) Search(ctx context.Context, input string) (*SearchState, error) {
	f := ParseSearch(input)
	if strings.TrimSpace(f.Query) == "" {
		return nil, fmt.Errorf("nothing to search for")
	}

	req := &vaultv1.SearchRequest{Query: f.Query, UserID: f.User, HumanTimes: true}
	if f.Channel != "" {
		if c := vm.ChannelByName(f.Channel); c != nil {
			req.ChannelID = c.ID
		} else {
			info, err := vm.client.Archive.GetChannelInfo(ctx, &vaultv1.GetChannelInfoRequest{Name: f.Channel})
			if err != nil {
				return nil, err
			}
			req.ChannelID = info.Channel.ID
		}
	}

	resp, err := vm.client.Archive.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	st := &SearchState{Filter: f, Mode: resp.Mode, Results: resp.Results}
	vm.mu.Lock()
	vm.search = st
	vm.mu.Unlock()
	return st, nil
}

// LastSearch returns the last search, or nil.
func (vm *ViewModel) LastSearch() *SearchState {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.search
}
