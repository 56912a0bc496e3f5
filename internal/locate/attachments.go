package locate

import (
	"regexp"
	"strings"

	"github.com/editalradar/editalradar/internal/opportunity"
)

var attachmentExt = regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?|odt|rtf|zip)([?#]|$)`)

// AttachmentLinks filters candidate links down to the URLs judged to be
// downloadable documents, order-preserving and deduplicated.
func AttachmentLinks(links []opportunity.Link) []string {
	seen := make(map[string]struct{}, len(links))
	var out []string
	for _, link := range links {
		if !isAttachment(link.URL) {
			continue
		}
		if _, dup := seen[link.URL]; dup {
			continue
		}
		seen[link.URL] = struct{}{}
		out = append(out, link.URL)
	}
	return out
}

func isAttachment(rawURL string) bool {
	if attachmentExt.MatchString(rawURL) {
		return true
	}
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "/download") || strings.Contains(lower, "/anexo")
}
