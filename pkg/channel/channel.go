// Package channel implements the hierarchical, slash-delimited channel
// algebra: parsing, normalization, containment, and the combined
// version+channel coordinate grammar used by update/export specs.
package channel

import (
	"strconv"
	"strings"

	"github.com/dpvpro/lal/pkg/errs"
)

// Testing is the reserved token that may only appear as a channel's last
// component.
const Testing = "testing"

// Channel is an ordered sequence of non-empty path-like components. The
// zero value is the empty (root) channel, which serializes as "/".
type Channel struct {
	components []string
}

// Parse splits s on '/' and drops empty components, so leading, trailing,
// and repeated slashes are all tidied away.
func Parse(s string) Channel {
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return Channel{components: out}
}

// Default is the empty channel, used when a dependency or export spec
// carries no explicit channel.
func Default() Channel { return Channel{} }

// Empty reports whether c has no components.
func (c Channel) Empty() bool { return len(c.components) == 0 }

// Components returns the channel's path segments. The caller must not
// mutate the returned slice.
func (c Channel) Components() []string { return c.components }

// String renders the canonical form: "/" for the root, "/a/b/c" otherwise.
func (c Channel) String() string {
	if len(c.components) == 0 {
		return "/"
	}
	return "/" + strings.Join(c.components, "/")
}

// IsTesting reports whether c's last component is the reserved "testing"
// token.
func (c Channel) IsTesting() bool {
	if len(c.components) == 0 {
		return false
	}
	return c.components[len(c.components)-1] == Testing
}

// Verify rejects NUL bytes anywhere in the channel and the "testing" token
// in any non-last position.
func (c Channel) Verify() error {
	for i, part := range c.components {
		if strings.ContainsRune(part, 0) {
			return errs.InvalidChannelCharacter(c.String())
		}
		if part == Testing && i != len(c.components)-1 {
			return errs.InvalidTestingChannel(c.String())
		}
	}
	return nil
}

// Contains reports whether parent contains child: child's components
// must extend parent's component-by-component, with one exception at the
// final position they share — if parent's last component is "testing"
// and child is itself a testing channel, that last pair matches
// regardless of what child's component there actually is. Every
// component before that final position must match exactly; the
// exception never forgives a mismatch earlier in the path.
func Contains(parent, child Channel) error {
	if len(child.components) < len(parent.components) {
		return errs.ChannelMismatch(child.String(), parent.String())
	}
	for i, p := range parent.components {
		isLast := i == len(parent.components)-1
		if isLast && p == Testing && child.IsTesting() {
			break
		}
		if child.components[i] != p {
			return errs.ChannelMismatch(child.String(), parent.String())
		}
	}
	return nil
}

// Equal reports whether two channels have identical components.
func (c Channel) Equal(o Channel) bool {
	if len(c.components) != len(o.components) {
		return false
	}
	for i := range c.components {
		if c.components[i] != o.components[i] {
			return false
		}
	}
	return true
}

// HTTPString renders the channel for inclusion in a backend URL path, one
// "channels/<segment>" pair per component, matching the cache layout's
// on-disk scheme.
func (c Channel) HTTPString() string {
	if len(c.components) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.components))
	for _, seg := range c.components {
		parts = append(parts, "channels", seg)
	}
	return strings.Join(parts, "/")
}

// FSString is the cache-directory rendering of the channel; identical in
// shape to HTTPString since both interleave literal "channels" segments.
func (c Channel) FSString() string { return c.HTTPString() }

// ParseCoords splits a "[channel/]version" style coordinate string. The
// trailing slash-delimited token is a version iff it parses as an
// unsigned integer; everything before it (if any) is the channel.
//
//	ParseCoords("")       -> (nil, nil)
//	ParseCoords("1")      -> (&1, nil)
//	ParseCoords("/a")     -> (nil, &"/a")
//	ParseCoords("/1")     -> (&1, &"/")
//	ParseCoords("/1/")    -> (nil, &"/1")
//	ParseCoords("/a/1")   -> (&1, &"/a")
func ParseCoords(s string) (*uint32, *Channel) {
	if s == "" {
		return nil, nil
	}
	trailingSlash := strings.HasSuffix(s, "/")
	trimmed := strings.TrimSuffix(s, "/")
	parts := strings.Split(trimmed, "/")
	last := parts[len(parts)-1]

	if trailingSlash {
		ch := Parse(s)
		return nil, &ch
	}

	if v, err := strconv.ParseUint(last, 10, 32); err == nil {
		version := uint32(v)
		rest := parts[:len(parts)-1]
		if len(rest) == 0 {
			if !strings.Contains(s, "/") {
				return &version, nil
			}
			ch := Default()
			return &version, &ch
		}
		ch := Parse(strings.Join(rest, "/"))
		if strings.HasPrefix(s, "/") {
			ch = Parse("/" + strings.Join(rest, "/"))
		}
		return &version, &ch
	}

	ch := Parse(s)
	return nil, &ch
}
