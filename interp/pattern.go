package interp

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/script"
	"github.com/ardnew/metaconv/value"
)

// MatchTimeout bounds a single regex match.
const MatchTimeout = 250 * time.Millisecond

// patterns caches compiled regexes by flags and source.
var patterns sync.Map

func compile(src, flags string) (*regexp2.Regexp, error) {
	key := flags + "/" + src
	if re, ok := patterns.Load(key); ok {
		return re.(*regexp2.Regexp), nil
	}

	var opt regexp2.RegexOptions

	for _, c := range flags {
		switch c {
		case 'i':
			opt |= regexp2.IgnoreCase
		case 'm':
			opt |= regexp2.Multiline
		case 's':
			opt |= regexp2.Singleline
		case 'x':
			opt |= regexp2.IgnorePatternWhitespace
		}
	}

	re, err := regexp2.Compile(src, opt)
	if err != nil {
		return nil, ErrPattern.Wrap(err).With(slog.String("pattern", src))
	}

	re.MatchTimeout = MatchTimeout
	patterns.Store(key, re)

	return re, nil
}

// Bind applies a match, substitution, or transliteration to target, as
// with =~ (or !~ when negate is set). text is the variable target was
// read from, or "" when target is not assignable; a substitution or
// transliteration without the r flag stores its result there.
func (f *Frame) Bind(text string, target value.Value, q *script.Quote, negate bool) value.Value {
	var out value.Value

	switch q.Op {
	case "", "m":
		out = f.MatchString(target, f.PatternSource(q), q.Flags, false)
	case "s":
		out = f.substitute(text, target, q)
	case "tr", "y":
		out = f.transliterate(text, target, q)
	default:
		return f.fail(ErrUnsupported.With(slog.String("operator", q.Op)))
	}

	if negate {
		return truth(!out.Truthy())
	}

	return out
}

// MatchString matches target against a regex source. On success the
// capture groups become $1, $2, ... and $&.
func (f *Frame) MatchString(target value.Value, src, flags string, negate bool) value.Value {
	re, err := compile(src, flags)
	if err != nil {
		return f.fail(err)
	}

	m, err := re.FindStringMatch(target.Text())
	if err != nil {
		return f.fail(ErrPattern.Wrap(err).With(slog.String("pattern", src)))
	}

	if m != nil {
		f.setGroups(m)
	}

	return truth((m != nil) != negate)
}

// PatternSource returns the regex source of a match or substitution with
// variables interpolated, unless the delimiter is a single quote.
func (f *Frame) PatternSource(q *script.Quote) string {
	if q.Open == "'" {
		return q.Body
	}

	return f.interpolate(q.Body, false)
}

func (f *Frame) setGroups(m *regexp2.Match) {
	gs := m.Groups()
	f.groups = make([]string, len(gs))

	for i, g := range gs {
		f.groups[i] = g.String()
	}
}

func (f *Frame) substitute(text string, target value.Value, q *script.Quote) value.Value {
	if strings.Count(q.Flags, "e") > 1 {
		return f.fail(ErrUnsupported.With(slog.String("flags", q.Flags)))
	}

	re, err := compile(f.PatternSource(q), q.Flags)
	if err != nil {
		return f.fail(err)
	}

	var repl normalize.Node
	if strings.ContainsRune(q.Flags, 'e') {
		repl = normalize.Parse(q.Repl)
	}

	src := []rune(target.Text())
	global := strings.ContainsRune(q.Flags, 'g')

	var b strings.Builder

	last, count := 0, 0

	m, err := re.FindRunesMatch(src)
	for err == nil && m != nil {
		f.setGroups(m)
		b.WriteString(string(src[last:m.Index]))

		switch {
		case repl != nil:
			b.WriteString(f.Eval(repl).Text())
		case q.Open == "'":
			b.WriteString(q.Repl)
		default:
			b.WriteString(f.interpolate(q.Repl, true))
		}

		last = m.Index + m.Length
		count++

		if !global {
			break
		}

		m, err = re.FindNextMatch(m)
	}

	if err != nil {
		return f.fail(ErrPattern.Wrap(err))
	}

	b.WriteString(string(src[last:]))

	return f.store(text, q.Flags, value.String(b.String()), count, target)
}

// store finishes a substitution or transliteration: with the r flag it
// returns the new string, otherwise it assigns it and returns the count.
func (f *Frame) store(text, flags string, result value.Value, count int, target value.Value) value.Value {
	if strings.ContainsRune(flags, 'r') {
		return result
	}

	if text != "" && (count > 0 || !result.Equal(target)) {
		f.Assign(text, result)
	}

	if count == 0 {
		return False
	}

	return value.I64(int64(count))
}

func (f *Frame) transliterate(text string, target value.Value, q *script.Quote) value.Value {
	search := expandRanges(q.Body)
	repl := expandRanges(q.Repl)

	complement := strings.ContainsRune(q.Flags, 'c')
	del := strings.ContainsRune(q.Flags, 'd')
	squeeze := strings.ContainsRune(q.Flags, 's')

	if len(repl) == 0 && !del {
		repl = search
	}

	if !del && len(repl) < len(search) && len(repl) > 0 {
		for len(repl) < len(search) {
			repl = append(repl, repl[len(repl)-1])
		}
	}

	var b strings.Builder

	count := 0
	lastOut, squeezing := rune(-1), false

	for _, r := range target.Text() {
		i := slices.Index(search, r)
		if complement {
			if i >= 0 {
				i = -1
			} else {
				i = len(search)
			}
		}

		if i < 0 {
			b.WriteRune(r)

			squeezing = false

			continue
		}

		count++

		var out rune

		switch {
		case complement && len(repl) > 0 && !del:
			out = repl[len(repl)-1]
		case complement && !del:
			out = r
		case i < len(repl):
			out = repl[i]
		case del:
			continue
		default:
			out = r
		}

		if squeeze && squeezing && out == lastOut {
			continue
		}

		b.WriteRune(out)

		lastOut, squeezing = out, true
	}

	return f.store(text, q.Flags, value.String(b.String()), count, target)
}

// expandRanges expands a transliteration list such as "a-z0-9\-" into its
// characters.
func expandRanges(s string) []rune {
	var in []rune

	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) {
			var b strings.Builder

			i += 1 + decodeEscape(&b, s[i+1:])
			in = append(in, []rune(b.String())...)

			continue
		}

		r := []rune(s[i:])[0]
		in = append(in, r)
		i += len(string(r))
	}

	var out []rune

	for i := 0; i < len(in); i++ {
		if i+2 < len(in) && in[i+1] == '-' && in[i] <= in[i+2] {
			for r := in[i]; r <= in[i+2]; r++ {
				out = append(out, r)
			}

			i += 2

			continue
		}

		out = append(out, in[i])
	}

	return out
}

// SplitOn is split with a separator computed at run time. A single space
// splits the way an awk-style literal " " does.
func (f *Frame) SplitOn(sep, s value.Value, limit int) value.Value {
	src := sep.Text()

	return f.Split(src, src == " ", s, limit)
}

// Split is split(PATTERN, STRING, LIMIT). With awk set the string is
// split on runs of whitespace after leading whitespace is dropped, the
// behavior of a single-space string pattern. A limit of zero or less
// keeps all fields; zero also drops trailing empty fields.
func (f *Frame) Split(src string, awk bool, s value.Value, limit int) value.Value {
	text := s.Text()

	var parts []string

	if awk {
		src, text = `\s+`, strings.TrimLeft(text, " \t\n\r\f")
	}

	re, err := compile(src, "")
	if err != nil {
		return f.fail(err)
	}

	runes := []rune(text)
	last := 0

	m, err := re.FindRunesMatch(runes)
	for err == nil && m != nil && (limit <= 0 || len(parts) < limit-1) {
		if m.Length == 0 && (m.Index == 0 || m.Index >= len(runes)) {
			m, err = re.FindNextMatch(m)

			continue
		}

		parts = append(parts, string(runes[last:m.Index]))

		for _, g := range m.Groups()[1:] {
			parts = append(parts, g.String())
		}

		last = m.Index + m.Length
		m, err = re.FindNextMatch(m)
	}

	if err != nil {
		return f.fail(ErrPattern.Wrap(err))
	}

	parts = append(parts, string(runes[last:]))

	if limit == 0 {
		for len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
	}

	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}

	return value.Array(out...)
}
