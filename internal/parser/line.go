package parser

import (
	"regexp"
	"strings"

	"github.com/sdpower/ahelpstats/internal/types"
)

const (
	// AdminMarker prefixes a response written by staff.
	AdminMarker = ":outbox_tray:"
	// PlayerMarker prefixes a message written by the player.
	PlayerMarker = ":inbox_tray:"

	fieldSeparator = "|"
)

type LineKind int

const (
	LineNone LineKind = iota
	LineAdminResponse
	LinePlayerMessage
)

func (k LineKind) String() string {
	switch k {
	case LineAdminResponse:
		return "admin"
	case LinePlayerMessage:
		return "player"
	default:
		return "none"
	}
}

// Line is the classification of a single embed line. Name is empty when the
// line carries a marker but no identity could be extracted from it.
type Line struct {
	Kind      LineKind
	Name      string
	Role      string
	AdminOnly bool
}

var (
	// marker, optional bold HH:MM[:SS] time, identity up to the first colon, message
	adminLineRe  = regexp.MustCompile(`:outbox_tray:\s*(?:\*\*)?(?:[\d:]{5,8}|[\d:]{2,5})?\s*(?:\*\*)?\s*(.+?):\s*(.+)`)
	playerLineRe = regexp.MustCompile(`:inbox_tray:\s*(?:\*\*)?(?:[\d:]{5,8}|[\d:]{2,5})?\s*(?:\*\*)?\s*(.+?):\s*(.+)`)
	adminOnlyRe  = regexp.MustCompile(`(?i)\(\s*admin\s+only\s*\)`)

	// the annotation may also open the message body instead of following the name
	adminOnlyBodyRe = regexp.MustCompile(`(?i)^\s*(?:\*\*)?\(\s*admin\s+only\s*\)`)
)

// ClassifyLine recognises admin responses and player messages. The admin
// marker is checked first, so a malformed line carrying both markers is an
// admin response.
func ClassifyLine(line string) Line {
	switch {
	case strings.Contains(line, AdminMarker):
		return classifyAdmin(line)
	case strings.Contains(line, PlayerMarker):
		return classifyPlayer(line)
	}
	return Line{Kind: LineNone}
}

func classifyAdmin(line string) Line {
	result := Line{Kind: LineAdminResponse, Role: types.RoleUnknown}

	m := adminLineRe.FindStringSubmatch(line)
	if m == nil {
		return result
	}
	identity, body := m[1], m[2]

	result.AdminOnly = adminOnlyRe.MatchString(identity) || adminOnlyBodyRe.MatchString(body)
	result.Name, result.Role = splitIdentity(identity)
	return result
}

func classifyPlayer(line string) Line {
	result := Line{Kind: LinePlayerMessage}

	m := playerLineRe.FindStringSubmatch(line)
	if m == nil {
		return result
	}
	result.Name, _ = splitIdentity(m[1])
	return result
}

// splitIdentity splits "Role | Sub-role | Name" into the normalized name and
// role. Without a separator the whole part is the name and the role is unknown.
func splitIdentity(identity string) (name, role string) {
	if !strings.Contains(identity, fieldSeparator) {
		return Normalize(identity), types.RoleUnknown
	}

	parts := strings.Split(identity, fieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	name = Normalize(parts[len(parts)-1])
	role = Normalize(strings.Join(parts[:len(parts)-1], " | "))
	if role == "" {
		role = types.RoleUnknown
	}
	return name, role
}
