package audit

import "strings"

// codeOf extracts a leading upper-case error code such as CFG_MISSING_KEY.
func codeOf(msg string) string {
	head, _, ok := strings.Cut(msg, ":")
	if !ok || head == "" {
		return ""
	}
	for _, r := range head {
		if (r < 'A' || r > 'Z') && r != '_' && (r < '0' || r > '9') {
			return ""
		}
	}
	return head
}
