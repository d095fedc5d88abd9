package parser

import (
	"strings"

	"github.com/sdpower/ahelpstats/internal/types"
)

// Session is the state reconstructed from the lines of one embed. It is built
// by a single ordered pass: an admin only receives mentions for player lines
// that come after the admin's first response.
type Session struct {
	Responders          map[string]struct{}
	AdminOnlyResponders map[string]struct{}
	Players             map[string]struct{}

	// per-admin mentions within this embed
	Mentions          map[string]int
	AdminOnlyMentions map[string]int

	// latest known role per admin seen in this embed
	Roles map[string]string

	HasPlayerMessage bool
	HasAdminResponse bool
	IsChat           bool
}

func NewSession() *Session {
	return &Session{
		Responders:          make(map[string]struct{}),
		AdminOnlyResponders: make(map[string]struct{}),
		Players:             make(map[string]struct{}),
		Mentions:            make(map[string]int),
		AdminOnlyMentions:   make(map[string]int),
		Roles:               make(map[string]string),
	}
}

// Reconstruct scans the lines of one embed in order.
func Reconstruct(lines []string) *Session {
	s := NewSession()
	for _, line := range lines {
		s.Observe(ClassifyLine(line))
	}
	return s
}

// ReconstructText splits an embed description into lines and reconstructs it.
func ReconstructText(text string) *Session {
	return Reconstruct(strings.Split(text, "\n"))
}

// Observe advances the session by one classified line.
func (s *Session) Observe(line Line) {
	switch line.Kind {
	case LineAdminResponse:
		s.IsChat = true
		s.observeAdmin(line)
	case LinePlayerMessage:
		s.IsChat = true
		s.observePlayer(line)
	}
}

func (s *Session) observeAdmin(line Line) {
	if line.Name == "" {
		return
	}
	s.HasAdminResponse = true

	if line.AdminOnly {
		s.AdminOnlyResponders[line.Name] = struct{}{}
	} else {
		s.Responders[line.Name] = struct{}{}
	}

	if line.Role != "" && line.Role != types.RoleUnknown {
		s.Roles[line.Name] = line.Role
	}
}

func (s *Session) observePlayer(line Line) {
	s.HasPlayerMessage = true
	if line.Name != "" {
		s.Players[line.Name] = struct{}{}
	}

	for admin := range s.Responders {
		if admin != line.Name {
			s.Mentions[admin]++
		}
	}
	for admin := range s.AdminOnlyResponders {
		if admin != line.Name {
			s.AdminOnlyMentions[admin]++
		}
	}
}

// Processed reports whether the help request got any admin response.
func (s *Session) Processed() bool {
	return s.HasPlayerMessage && s.HasAdminResponse
}

// IsPlayer reports whether name wrote as a player in this embed.
func (s *Session) IsPlayer(name string) bool {
	_, ok := s.Players[name]
	return ok
}
