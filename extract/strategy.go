package extract

import "strings"

// Strategy derives one identifier from an event.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Extract returns the identifier and true on a match.
	Extract(ev *Event) (string, bool)
}

// Pipeline is an ordered list of strategies; the first match wins.
type Pipeline []Strategy

// Run evaluates the pipeline and returns the first match along with the
// name of the strategy that produced it.
func (p Pipeline) Run(ev *Event) (value, source string, ok bool) {
	for _, s := range p {
		if v, ok := s.Extract(ev); ok {
			return v, s.Name(), true
		}
	}
	return "", "", false
}

// ──────────────────────────────────────────────────
// Key lookups
// ──────────────────────────────────────────────────

// DirectField matches the first non-empty explicit field among Keys.
type DirectField struct{ Keys []string }

func (DirectField) Name() string { return "direct_field" }

func (s DirectField) Extract(ev *Event) (string, bool) { return lookup(ev.Fields, s.Keys) }

// ParameterLookup matches the first non-empty job parameter among Keys.
type ParameterLookup struct{ Keys []string }

func (ParameterLookup) Name() string { return "parameter" }

func (s ParameterLookup) Extract(ev *Event) (string, bool) { return lookup(ev.Parameters, s.Keys) }

// TagLookup matches the first non-empty job tag among Keys.
type TagLookup struct{ Keys []string }

func (TagLookup) Name() string { return "tag" }

func (s TagLookup) Extract(ev *Event) (string, bool) { return lookup(ev.Tags, s.Keys) }

func lookup(m map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v := strings.TrimSpace(m[k]); v != "" {
			return v, true
		}
	}
	return "", false
}

// ──────────────────────────────────────────────────
// Command line
// ──────────────────────────────────────────────────

// CommandFlag matches the value following the first of Flags in the
// container command. Both "--flag value" and "--flag=value" are accepted.
type CommandFlag struct{ Flags []string }

func (CommandFlag) Name() string { return "command_flag" }

func (s CommandFlag) Extract(ev *Event) (string, bool) {
	for _, flag := range s.Flags {
		for i, arg := range ev.Command {
			if arg == flag && i+1 < len(ev.Command) {
				if v := strings.TrimSpace(ev.Command[i+1]); v != "" && !strings.HasPrefix(v, "--") {
					return v, true
				}
				continue
			}
			if v, found := strings.CutPrefix(arg, flag+"="); found && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// ──────────────────────────────────────────────────
// Job name
// ──────────────────────────────────────────────────

// ObjectIDLen is the length of the hex object identifiers embedded in job
// names.
const ObjectIDLen = 24

// PatternMatch takes the first run of exactly ObjectIDLen hex characters in
// the job name, bounded by non-hex characters or the string ends, and
// returns it verbatim.
//
// OnlyPrefix restricts the strategy to names with that prefix; SkipPrefix
// disables it for names with that prefix. Empty values impose nothing.
type PatternMatch struct {
	OnlyPrefix string
	SkipPrefix string
}

func (PatternMatch) Name() string { return "pattern" }

func (s PatternMatch) Extract(ev *Event) (string, bool) {
	name := ev.JobName
	if s.OnlyPrefix != "" && !strings.HasPrefix(name, s.OnlyPrefix) {
		return "", false
	}
	if s.SkipPrefix != "" && strings.HasPrefix(name, s.SkipPrefix) {
		return "", false
	}
	id := FindObjectID(name)
	return id, id != ""
}

// FindObjectID returns the first hex run of exactly ObjectIDLen characters
// in s, or "".
func FindObjectID(s string) string {
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && isHex(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start == ObjectIDLen {
			return s[start:i]
		}
		start = -1
	}
	return ""
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// NameSegment matches segment Index (zero-based) of the job name split on
// "-", for names that start with Prefix.
type NameSegment struct {
	Prefix string
	Index  int
}

func (NameSegment) Name() string { return "name_segment" }

func (s NameSegment) Extract(ev *Event) (string, bool) {
	if !strings.HasPrefix(ev.JobName, s.Prefix) {
		return "", false
	}
	parts := strings.Split(ev.JobName, "-")
	if s.Index < 0 || s.Index >= len(parts) || parts[s.Index] == "" {
		return "", false
	}
	return parts[s.Index], true
}
