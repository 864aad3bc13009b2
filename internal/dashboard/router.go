package dashboard

// Outcome is the result class of a routing decision.
type Outcome int

const (
	// OutcomeRender means the section may be shown.
	OutcomeRender Outcome = iota
	// OutcomeEmpty renders a blank content area. Used for unknown and
	// unauthorized sections.
	OutcomeEmpty
	// OutcomeDenied renders the explicit access-denied notice. Used only
	// by the role segment gate.
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeEmpty:
		return "empty"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// AccessDeniedNotice is shown when the role segment gate fails.
const AccessDeniedNotice = "You don't have permission to access this section"

// Request is the input to Route.
type Request struct {
	Role    Role
	Section SectionID
	Segment RoleSegment
}

// Decision is the output of Route.
type Decision struct {
	Outcome Outcome
	Section SectionID
	Segment RoleSegment
}

// Allowed reports whether a panel should be rendered.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeRender
}

// Route decides what the dashboard shows for a request. The segment gate
// runs first and short-circuits with OutcomeDenied; the section gate
// collapses to OutcomeEmpty. The two failure modes differ on purpose
// until product settles on one.
func Route(req Request) Decision {
	role := ParseRole(string(req.Role))
	section := req.Section
	if section == "" {
		section = DefaultSection
	}
	decision := Decision{Section: section, Segment: req.Segment}

	if req.Segment != SegmentNone && !req.Segment.PermitsRole(role) {
		decision.Outcome = OutcomeDenied
		return decision
	}
	if !CanView(role, section) {
		decision.Outcome = OutcomeEmpty
		return decision
	}
	decision.Outcome = OutcomeRender
	return decision
}
