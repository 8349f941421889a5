// Package extract turns a filtered document corpus into structured candidate
// legs by batching documents through the Anthropic Messages API.
package extract

import (
	"fmt"
	"strings"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// extractionSystemText is the fixed part of the system prompt. The gap
// context is appended and the combined block is marked cache-eligible so
// every batch after the first reads it from the prompt cache.
const extractionSystemText = `You are a travel analyst reconstructing missing segments of a personal travel itinerary from booking and confirmation emails.

You are given a list of known gaps in the itinerary and a batch of email documents. Find travel legs described in the documents that could fill any of the gaps.

Return ONLY a JSON array of travel leg objects, one per leg found. Each object has these fields:
{"departure_country": "<country>", "departure_city": "<city>", "departure_date": "YYYY-MM-DD", "departure_time": "HH:MM", "arrival_country": "<country>", "arrival_city": "<city>", "arrival_date": "YYYY-MM-DD", "arrival_time": "HH:MM", "notes": "<short description>", "source_file": "<document id the leg came from>"}

Use "Unknown" for locations you cannot determine and an empty string for dates or times that are not stated. If no documents describe a relevant travel leg, return an empty array [].`

// GapContext renders the open gaps as a numbered block. The block is
// identical for every batch of a run.
func GapContext(gaps []model.Gap) string {
	if len(gaps) == 0 {
		return "No open gaps."
	}
	var b strings.Builder
	b.WriteString("Open itinerary gaps:\n")
	for i, g := range gaps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g.Describe())
	}
	return b.String()
}

// BatchPrompt builds the user prompt for one batch of documents. Each
// document's body is truncated to maxChars to keep the request under the
// context limit.
func BatchPrompt(docs []model.Document, maxChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Documents (%d):\n\n", len(docs))
	for _, d := range docs {
		fmt.Fprintf(&b, "--- Document: %s ---\n", d.ID)
		if d.Subject != "" {
			fmt.Fprintf(&b, "Subject: %s\n", d.Subject)
		}
		if d.Sender != "" {
			fmt.Fprintf(&b, "From: %s\n", d.Sender)
		}
		if d.HasDate() {
			fmt.Fprintf(&b, "Date: %s\n", d.Date.Format(model.DateLayout))
		}
		b.WriteString(truncateContent(d.Body, maxChars))
		b.WriteString("\n\n")
	}
	b.WriteString("Extract travel legs that could fill the gaps. Return only the JSON array.")
	return b.String()
}

// truncateContent cuts a document body at the character budget, backing up
// to the previous space so a word is never split mid-rune.
func truncateContent(body string, maxChars int) string {
	body = strings.TrimSpace(body)
	if maxChars <= 0 || len(body) <= maxChars {
		return body
	}
	cut := body[:maxChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > maxChars/2 {
		cut = cut[:idx]
	}
	return cut
}
