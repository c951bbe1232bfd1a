package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fpt/go-toolbench/pkg/bench/scope"
	"github.com/fpt/go-toolbench/pkg/message"
)

const (
	webFetchTimeout  = 30 * time.Second
	webFetchMaxChars = 20000
)

// newWebFetch builds the webpage fetching tool. The fetched text is also
// stored in the scope under "last_fetched_url" so teardown code can assert
// which page the model actually consulted.
func newWebFetch(sc *scope.Scope, name message.ToolName) message.Tool {
	return newDefinition(name,
		"Fetch a webpage over HTTP(S) and return its readable text content. Supply a specific URL.",
		[]message.ToolArgument{
			{Name: "url", Description: "URL of the webpage to fetch", Required: true, Type: "string"},
		},
		func(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
			urlStr, ok := args.String("url")
			if !ok {
				return message.NewToolResultError("url parameter is required and must be a string"), nil
			}

			parsed, err := url.Parse(urlStr)
			if err != nil {
				return message.NewToolResultError(fmt.Sprintf("invalid URL format: %v", err)), nil
			}
			if parsed.Scheme != "http" && parsed.Scheme != "https" {
				return message.NewToolResultError("invalid URL scheme: must be http or https"), nil
			}

			text, err := fetchPageText(ctx, urlStr)
			if err != nil {
				return message.NewToolResultError(err.Error()), nil
			}

			sc.Set("last_fetched_url", urlStr)
			return message.NewToolResultText(text), nil
		})
}

func fetchPageText(ctx context.Context, urlStr string) (string, error) {
	client := &http.Client{Timeout: webFetchTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Compatible Eval Harness Fetcher)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch webpage: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %v", err)
	}

	return extractReadableText(doc), nil
}

func extractReadableText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside").Remove()

	var b strings.Builder
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		b.WriteString("# " + title + "\n\n")
	}

	doc.Find("h1, h2, h3, p, li, td, pre").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(sel) {
		case "h1":
			b.WriteString("# " + text + "\n")
		case "h2":
			b.WriteString("## " + text + "\n")
		case "h3":
			b.WriteString("### " + text + "\n")
		case "li":
			b.WriteString("- " + text + "\n")
		default:
			b.WriteString(text + "\n")
		}
	})

	out := b.String()
	if len(out) > webFetchMaxChars {
		out = out[:webFetchMaxChars] + "\n... (truncated)"
	}
	return strings.TrimSpace(out)
}
