package mailbox

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// wordDecoder decodes RFC 2047 encoded-words in headers, converting
// non-UTF-8 charsets through the HTML index the same way the body decoder
// does.
var wordDecoder = mime.WordDecoder{
	CharsetReader: charsetReader,
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "mailbox: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}

// dateLayouts are tried in order for Date headers that time.Parse's RFC 1123
// variants reject. Corpus mail spans decades of client quirks.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFile reads one .eml file into a Document. The id is the filename
// relative to the corpus directory.
func ParseFile(path, id string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mailbox: open %s", path)
	}
	defer f.Close()

	return Parse(f, id)
}

// Parse reads one RFC 5322 message into a Document. Header decoding and the
// date are best-effort: a missing or malformed Date leaves the zero value,
// which keeps the document in scope for keyword filtering without pinning
// it to any gap window.
func Parse(r io.Reader, id string) (*model.Document, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, eris.Wrapf(err, "mailbox: parse message %s", id)
	}

	doc := &model.Document{
		ID:      id,
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Sender:  decodeHeader(msg.Header.Get("From")),
		Date:    parseDate(msg.Header.Get("Date")),
	}

	body, err := readBody(msg.Header, msg.Body)
	if err != nil {
		return nil, err
	}
	doc.Body = body
	return doc, nil
}

func decodeHeader(raw string) string {
	decoded, err := wordDecoder.DecodeHeader(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(decoded)
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := mail.ParseDate(raw); err == nil {
		return t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// headerSource is the subset of mail.Header and textproto.MIMEHeader both
// body levels expose.
type headerSource interface {
	Get(key string) string
}

// readBody walks the message body, preferring text/plain parts and falling
// back to text/html converted to visible text. Multipart containers are
// traversed recursively; unreadable parts contribute nothing.
func readBody(header headerSource, body io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		// No or malformed Content-Type: treat the body as plain text.
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return "", eris.Errorf("mailbox: multipart message without boundary")
		}
		return readMultipart(body, boundary)
	}

	decoded := decodeTransferEncoding(body, header.Get("Content-Transfer-Encoding"))
	decoded = decodeCharset(decoded, params["charset"])

	raw, err := io.ReadAll(decoded)
	if err != nil {
		return "", eris.Wrap(err, "mailbox: read body")
	}

	text := string(raw)
	if strings.HasPrefix(mediaType, "text/html") {
		text = HTMLToText(text)
	}
	return strings.TrimSpace(text), nil
}

// readMultipart collects the decoded text of every text part. A plain part
// anywhere in the tree wins over HTML; HTML is used only when no plain text
// exists at all.
func readMultipart(body io.Reader, boundary string) (string, error) {
	var plain, html []string

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Truncated or malformed tail: keep whatever parts parsed.
			break
		}

		text, err := readBody(part.Header, part)
		if err != nil || text == "" {
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		switch {
		case strings.HasPrefix(mediaType, "text/html"):
			html = append(html, text)
		case strings.HasPrefix(mediaType, "multipart/"), strings.HasPrefix(mediaType, "text/"), mediaType == "":
			plain = append(plain, text)
		}
	}

	if len(plain) > 0 {
		return strings.Join(plain, "\n\n"), nil
	}
	return strings.Join(html, "\n\n"), nil
}

func decodeTransferEncoding(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

func decodeCharset(r io.Reader, charset string) io.Reader {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return r
	}
	converted, err := charsetReader(charset, r)
	if err != nil {
		return r
	}
	return converted
}
