package world

import (
	"fmt"

	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
)

// Severity grades a validation finding.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Issue is one problem found in a level.
type Issue struct {
	Severity Severity
	TileID   string // empty for level-wide findings
	Message  string
}

func (i Issue) String() string {
	if i.TileID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Severity, i.Message, i.TileID)
}

// Validate inspects a level for authoring mistakes. Errors make a level
// unplayable; warnings point at levels that probably cannot be won.
func Validate(l *Level) []Issue {
	var issues []Issue
	warn := func(id, format string, args ...any) {
		issues = append(issues, Issue{SeverityWarning, id, fmt.Sprintf(format, args...)})
	}
	fail := func(id, format string, args ...any) {
		issues = append(issues, Issue{SeverityError, id, fmt.Sprintf(format, args...)})
	}

	for _, t := range l.Tiles {
		if l.Def(t) == nil {
			fail(t.ID, "unknown tile kind %q", t.Kind)
			continue
		}
		if !l.fits(t.Footprint()) {
			fail(t.ID, "%s at (%d,%d) lies outside the %dx%d grid", t.Kind, t.X, t.Y, l.Width, l.Height)
		}
	}

	switch n := len(l.OfKind(gamedata.KindEntrance)); {
	case n == 0:
		warn("", "no entrance; the player starts at the origin")
	case n > 1:
		warn("", "%d entrances; only the first is used", n)
	}

	exits := len(l.OfKind(gamedata.KindExit))
	if exits == 0 {
		warn("", "no exit; the level cannot be won")
	}
	if exits > 0 && len(l.OfKind(gamedata.KindArtefact)) == 0 {
		warn("", "exit without an artefact; the level cannot be won")
	}

	if portals := l.OfKind(gamedata.KindPortal); len(portals) == 1 {
		warn(portals[0].ID, "portal has no partner")
	}

	targeted := make(map[string]bool, len(l.Triggers))
	for _, tr := range l.Triggers {
		if l.Find(tr.TargetID) == nil {
			warn(tr.ID, "trigger at (%d,%d) targets missing tile %s", tr.X, tr.Y, tr.TargetID)
		}
		targeted[tr.TargetID] = true
	}
	for _, t := range l.Tiles {
		if l.HasTag(t, gamedata.TagRotating) && !targeted[t.ID] {
			warn(t.ID, "%s at (%d,%d) has no trigger", t.Kind, t.X, t.Y)
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
