package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gmail "google.golang.org/api/gmail/v1"
)

// header returns the named header from a message payload, empty if absent.
func header(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the MIME tree and returns the best plain-text body:
// a text/plain part when one exists, otherwise the text/html part
// flattened to text. An empty string means the message carried no
// readable body.
func extractBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	text, html := walkParts(msg.Payload)
	if text != "" {
		return strings.TrimSpace(text)
	}
	if html != "" {
		return flattenHTML(html)
	}
	return ""
}

func walkParts(part *gmail.MessagePart) (textBody, htmlBody string) {
	if part.Body != nil && part.Body.Data != "" {
		decoded := decodeBase64URL(part.Body.Data)
		switch part.MimeType {
		case "text/plain":
			textBody = decoded
		case "text/html":
			htmlBody = decoded
		}
	}
	for _, child := range part.Parts {
		nestedText, nestedHTML := walkParts(child)
		if textBody == "" {
			textBody = nestedText
		}
		if htmlBody == "" {
			htmlBody = nestedHTML
		}
	}
	return textBody, htmlBody
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}
	return string(decoded)
}

// flattenHTML strips markup and non-content elements, returning readable
// text with collapsed whitespace.
func flattenHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style, head, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// receivedTime converts Gmail's internal epoch-millisecond timestamp.
func receivedTime(msg *gmail.Message) time.Time {
	if msg.InternalDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(msg.InternalDate).UTC()
}
