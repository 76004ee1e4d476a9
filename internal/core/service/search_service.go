package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rl1809/techmart/internal/core/domain"
)

const (
	minQueryLength = 2
	maxSuggestions = 5
	resultsPage    = "products.html"
)

var DefaultSuggestions = []string{
	"iPhone", "MacBook", "AirPods", "iPad", "Apple Watch",
	"Samsung Galaxy", "Dell XPS", "HP Laptop", "Sony Headphones",
}

var DefaultSearchIndex = []string{
	"iPhone 15 Pro",
	"MacBook Pro 14-inch",
	"AirPods Pro",
	"iPad Air",
	"Apple Watch Series 9",
}

type SearchResult struct {
	Query       string   `json:"query"`
	Matches     []string `json:"matches"`
	RedirectURL string   `json:"redirect_url,omitempty"`
}

type SearchService struct {
	suggestions []string
	index       []string
	notifier    Notifier
}

func NewSearchService(notifier Notifier, suggestions, index []string) *SearchService {
	if suggestions == nil {
		suggestions = DefaultSuggestions
	}
	if index == nil {
		index = DefaultSearchIndex
	}
	return &SearchService{suggestions: suggestions, index: index, notifier: notifier}
}

func containsFold(candidate, query string) bool {
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(query))
}

func matchAll(candidates []string, query string) []string {
	out := []string{}
	for _, c := range candidates {
		if containsFold(c, query) {
			out = append(out, c)
		}
	}
	return out
}

// Suggest returns at most five suggestions containing the trimmed query.
func (s *SearchService) Suggest(query string) []string {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minQueryLength {
		return []string{}
	}
	matches := matchAll(s.suggestions, q)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return matches
}

// Input handles a keystroke in the search field of a session. Suggestions
// appear after the debounce delay; a short query hides them at once.
func (s *SearchService) Input(session *Session, value string) {
	session.setSearchValue(value)
	session.suggestDebounce.Cancel()

	q := strings.TrimSpace(value)
	if utf8.RuneCountInString(q) < minQueryLength {
		session.hideSuggestions()
		return
	}
	session.suggestDebounce.Trigger(func() {
		if matches := s.Suggest(q); len(matches) > 0 {
			session.showSuggestions(matches)
		}
	})
}

// Blur hides the suggestions shortly after the field loses focus, leaving time for a click.
func (s *SearchService) Blur(session *Session) {
	session.suggestHide.Trigger(session.hideSuggestions)
}

// Submit is the search form: queries shorter than two characters only warn.
func (s *SearchService) Submit(session *Session, query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minQueryLength {
		s.notifier.Notify(session.ID, "Please enter at least 2 characters to search", domain.NotificationWarning)
		return SearchResult{Query: q, Matches: []string{}}, ErrQueryTooShort
	}
	return s.perform(session, q), nil
}

// SelectSuggestion fills the field with the suggestion and searches for it.
func (s *SearchService) SelectSuggestion(session *Session, suggestion string) SearchResult {
	session.setSearchValue(suggestion)
	result := s.perform(session, suggestion)
	session.hideSuggestions()
	return result
}

func (s *SearchService) perform(session *Session, query string) SearchResult {
	result := SearchResult{Query: query, Matches: matchAll(s.index, query)}
	if len(result.Matches) == 0 {
		s.notifier.Notify(session.ID, fmt.Sprintf("No results found for \"%s\"", query), domain.NotificationInfo)
		return result
	}
	s.notifier.Notify(session.ID, fmt.Sprintf("Found %d results for \"%s\"", len(result.Matches), query), domain.NotificationSuccess)
	result.RedirectURL = ResultsURL(query)
	return result
}

// ResultsURL is the products page filtered by the query, percent-encoded like encodeURIComponent.
func ResultsURL(query string) string {
	return resultsPage + "?search=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}
