package contextengine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/smartadvisor/backend/pkg/llm"
)

const personaSentence = "You are SmartAdvisor, an internal business assistant."

const chatDirective = "\nImportant: Do not mention that you are an AI, model name, tokens, or any technical details. Respond as SmartAdvisor itself."

var responseInstructions = []string{
	"## Response Instructions",
	"Please provide a helpful, accurate response based on the business context and user query above.",
	"Do not mention that you are an AI, model name, tokens, or any technical details.",
	"Respond as if you are the SmartAdvisor system itself.",
}

// Active resolves the context visible to a single build: an explicit
// per-call override fully supersedes the stored context; it never mixes
// with it and does not persist unless the caller updates separately.
func Active(stored, override Context) Context {
	if len(override) > 0 {
		return override
	}
	return stored
}

// BuildPrompt renders the query and active context into one structured text
// document: business context section (when non-empty), the user query, and a
// fixed response-instructions block.
func BuildPrompt(query string, stored, override Context) string {
	active := Active(stored, override)

	var parts []string
	if len(active) > 0 {
		parts = append(parts, "## Business Context")
		if v, ok := active[KeyRole]; ok {
			parts = append(parts, "**Role:** "+stringify(v))
		}
		if v, ok := active[KeyMode]; ok {
			parts = append(parts, "**Mode:** "+stringify(v))
		}
		if v, ok := active[KeyInstructions]; ok {
			parts = append(parts, "**Instructions:**\n"+renderInstructions(v, true))
		}
		for _, k := range extraKeys(active) {
			parts = append(parts, fmt.Sprintf("**%s:** %s", titleCase(k), renderValue(active[k])))
		}
		parts = append(parts, "")
	}

	parts = append(parts, "## User Query", query, "")
	parts = append(parts, responseInstructions...)
	return strings.Join(parts, "\n")
}

// BuildChatMessages renders the same active context into a multi-turn message
// list: one system message, prior history verbatim, then the current query as
// the final user message. History entries are treated as opaque role/content
// pairs and are not validated here.
func BuildChatMessages(query string, stored, override Context, history []llm.Message) []llm.Message {
	active := Active(stored, override)

	sys := []string{personaSentence}
	if len(active) > 0 {
		if v, ok := active[KeyRole]; ok {
			sys = append(sys, "You are operating in the role of: "+stringify(v))
		}
		if v, ok := active[KeyMode]; ok {
			sys = append(sys, fmt.Sprintf("You are in %s mode.", stringify(v)))
		}
		if v, ok := active[KeyInstructions]; ok {
			// Plain newline join here; prompt mode bullets them.
			sys = append(sys, "Follow these instructions:\n"+renderInstructions(v, false))
		}
		for _, k := range extraKeys(active) {
			sys = append(sys, fmt.Sprintf("%s: %s", titleCase(k), renderValue(active[k])))
		}
	}
	sys = append(sys, chatDirective)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: strings.Join(sys, "\n")})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: query})
	return messages
}

// extraKeys returns the non-reserved keys in sorted order, so rendering is
// deterministic.
func extraKeys(c Context) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		switch k {
		case KeyRole, KeyMode, KeyInstructions:
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// renderInstructions renders the instructions value: sequences become one
// item per line (bulleted or plain), scalars pass through as-is.
func renderInstructions(v any, bullets bool) string {
	items, ok := asSlice(v)
	if !ok {
		return stringify(v)
	}
	lines := make([]string, len(items))
	for i, it := range items {
		if bullets {
			lines[i] = "- " + stringify(it)
		} else {
			lines[i] = stringify(it)
		}
	}
	return strings.Join(lines, "\n")
}

// renderValue serializes structured values as pretty-printed JSON and leaves
// scalars untouched.
func renderValue(v any) string {
	switch v.(type) {
	case map[string]any, Context, []any, []string:
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(b)
		}
	}
	return stringify(v)
}

func asSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, treating any non-letter as a word boundary ("company_name" becomes
// "Company_Name").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
