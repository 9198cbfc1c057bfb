// Package activity reads a user's public GitHub activity from the Atom
// feed GitHub publishes for every account and renders it as markdown.
package activity

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Event is one entry of an activity feed.
type Event struct {
	ID        string
	Title     string
	Link      string
	Published time.Time
	Summary   string
}

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

func (p *Parser) Parse(reader io.Reader) ([]Event, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	events := make([]Event, 0, len(feed.Items))
	for _, item := range feed.Items {
		ev := Event{
			ID:      item.GUID,
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Summary: plainText(getContent(item)),
		}
		switch {
		case item.PublishedParsed != nil:
			ev.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			ev.Published = *item.UpdatedParsed
		}
		events = append(events, ev)
	}

	return events, nil
}

func getContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

var (
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

// plainText strips markup from feed content so it can sit in a markdown list.
func plainText(s string) string {
	s = tagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = tagRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}
