package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bagassaputradewa/Telegram-Bot/pkg/gopher"
)

const (
	// MaxChunkSize is the transport's per-message limit. Reports longer
	// than this are split into sequential chunks.
	MaxChunkSize = 4000

	maxItems         = 10
	maxContentRunes  = 300
	maxRawDumpLength = 800
)

// Params restates the search that produced a result, for the report
// header.
type Params struct {
	SearchType string
	Query      string
	Platform   string
}

// BuildReport renders a canonical result into one logical report text.
// Callers split it with SplitChunks before delivery.
func BuildReport(p Params, res gopher.CanonicalResult) string {
	var b strings.Builder

	b.WriteString("✅ SEARCH COMPLETED\n\n")
	fmt.Fprintf(&b, "🎯 Type: %s\n", p.SearchType)
	fmt.Fprintf(&b, "📝 Query: %s\n", p.Query)
	fmt.Fprintf(&b, "🌐 Platform: %s\n\n", p.Platform)

	if res.Raw.IsObject() {
		if status := res.Raw.Get("status"); status.Exists() {
			fmt.Fprintf(&b, "📈 Status: %s\n\n", status.String())
		}
	}

	switch {
	case res.Outcome == gopher.OutcomeFailed:
		fmt.Fprintf(&b, "❌ Error: %s\n", res.Reason)

	case res.Items == nil:
		// Shape the decoder could not break into items: show it as-is
		// rather than dropping information.
		b.WriteString("📊 Raw Results:\n\n")
		b.WriteString(truncateRunes(res.Raw.Raw, maxRawDumpLength))
		b.WriteString("\n")

	case len(res.Items) == 0:
		b.WriteString("📊 No results found.\n\n")
		b.WriteString("Try:\n")
		b.WriteString("• Different keywords\n")
		b.WriteString("• Broader search terms\n")
		b.WriteString("• Different search type\n")

	default:
		writeItems(&b, res.Items)
	}

	return b.String()
}

func writeItems(b *strings.Builder, items []gjson.Result) {
	fmt.Fprintf(b, "📊 Found %d results:\n\n", len(items))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	shown := items
	if len(shown) > maxItems {
		shown = shown[:maxItems]
	}

	for i, item := range shown {
		if !item.IsObject() {
			continue
		}
		writeItem(b, i+1, item)
	}

	if len(items) > maxItems {
		fmt.Fprintf(b, "... and %d more results\n", len(items)-maxItems)
	}
}

func writeItem(b *strings.Builder, index int, item gjson.Result) {
	content := item.Get("content").String()
	if content == "" {
		content = item.Get("text").String()
	}

	if content != "" {
		fmt.Fprintf(b, "[%d] %s\n\n", index, truncateContent(content))
	} else {
		fmt.Fprintf(b, "[%d] (No content)\n\n", index)
	}

	if metadata := item.Get("metadata"); metadata.IsObject() {
		username := metadata.Get("username").String()
		if username != "" {
			fmt.Fprintf(b, "   👤 @%s\n", username)
		}

		if createdAt := metadata.Get("created_at").String(); createdAt != "" {
			fmt.Fprintf(b, "   📅 %s\n", formatTimestamp(createdAt))
		}

		writeMetrics(b, metadata.Get("public_metrics"))

		postID := metadata.Get("tweet_id").String()
		if postID == "" {
			postID = metadata.Get("id").String()
		}
		if postID != "" && username != "" {
			fmt.Fprintf(b, "   🔗 https://twitter.com/%s/status/%s\n", username, postID)
		} else if id := item.Get("id").String(); id != "" {
			fmt.Fprintf(b, "   🆔 ID: %s\n", id)
		}
	}

	b.WriteString("\n" + strings.Repeat("-", 40) + "\n\n")
}

func writeMetrics(b *strings.Builder, metrics gjson.Result) {
	if !metrics.IsObject() {
		return
	}

	likes := metrics.Get("like_count").Int()
	retweets := metrics.Get("retweet_count").Int()
	replies := metrics.Get("reply_count").Int()
	quotes := metrics.Get("quote_count").Int()

	if likes == 0 && retweets == 0 && replies == 0 && quotes == 0 {
		return
	}

	var parts []string
	if likes > 0 {
		parts = append(parts, fmt.Sprintf("❤️ %d", likes))
	}
	if retweets > 0 {
		parts = append(parts, fmt.Sprintf("🔄 %d", retweets))
	}
	if replies > 0 {
		parts = append(parts, fmt.Sprintf("💬 %d", replies))
	}
	if quotes > 0 {
		parts = append(parts, fmt.Sprintf("📝 %d", quotes))
	}

	b.WriteString("   📊 " + strings.Join(parts, " | ") + "\n")
}

// formatTimestamp parses an ISO-8601-like timestamp and renders it as
// "2006-01-02 15:04 UTC". Anything unparseable comes back verbatim.
func formatTimestamp(raw string) string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02 15:04") + " UTC"
		}
	}
	return raw
}

func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= maxContentRunes {
		return content
	}
	return string(runes[:maxContentRunes]) + "..."
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// SplitChunks slices text into sequential chunks of at most chunkSize
// runes, preserving order. The final chunk carries the remainder.
func SplitChunks(text string, chunkSize int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
