package extract

import "strings"

// boilerplatePrefixes are process-wrapper tokens the instrumentation source
// prepends to signpost payloads.
var boilerplatePrefixes = []string{
	"os_signpost:",
	"signpost:",
	"composable-architecture:",
}

// formatTokens are printf-style placeholders left behind by the signpost
// format string when an argument was redacted.
var formatTokens = []string{
	"%{public}s",
	"%{private}s",
	"%s",
	"%d",
}

// CleanMessage normalizes a marker payload for human-readable display:
// boilerplate prefixes and format tokens are stripped, a duplicated
// Feature.Action.name substring is collapsed to one occurrence, and a message
// carrying a bracketed context tag reduces to just that tag's content.
func CleanMessage(message string) string {
	s := strings.TrimSpace(message)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	for _, tok := range formatTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = collapseDuplicateActionPath(s)

	if tag, ok := MatchBracketContext(s); ok {
		return tag
	}
	return strings.Join(strings.Fields(s), " ")
}

// collapseDuplicateActionPath removes repeats of the first Feature.Action.name
// substring, which the source instrumentation sometimes emits twice in one
// message.
func collapseDuplicateActionPath(s string) string {
	match := featureActionRe.FindString(s)
	if match == "" || strings.Count(s, match) < 2 {
		return s
	}
	first := strings.Index(s, match)
	head := s[:first+len(match)]
	tail := strings.ReplaceAll(s[first+len(match):], match, "")
	return strings.Join(strings.Fields(head+tail), " ")
}
