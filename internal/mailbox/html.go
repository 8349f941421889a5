package mailbox

import (
	"regexp"
	"strings"
)

var (
	invisibleRe = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`[ \t]+`)
	newlineRe   = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

// HTMLToText converts an HTML email body to the text a reader would see:
// script, style and head blocks removed, tags stripped, common entities
// decoded, whitespace collapsed. Keyword filtering and extraction both work
// on this form.
func HTMLToText(html string) string {
	html = invisibleRe.ReplaceAllString(html, "")
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	html = spaceRe.ReplaceAllString(html, " ")
	html = newlineRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}
