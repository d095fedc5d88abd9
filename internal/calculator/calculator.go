package calculator

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sdpower/ahelpstats/internal/parser"
	"github.com/sdpower/ahelpstats/internal/types"
)

// Record is one exported message as seen by the aggregator.
type Record interface {
	Time() (time.Time, bool)
	EmbedTexts() []string
}

type Calculator struct {
	location       *time.Location
	skipSelfAhelps bool
}

func New() *Calculator {
	return &Calculator{
		location: time.UTC,
	}
}

// SetTimezone sets the location used to cut day and hour buckets.
func (c *Calculator) SetTimezone(loc *time.Location) {
	if loc != nil {
		c.location = loc
	}
}

// SetSkipSelfAhelps stops crediting an ahelp to a responder who also wrote as
// the player in the same embed.
func (c *Calculator) SetSkipSelfAhelps(skip bool) {
	c.skipSelfAhelps = skip
}

// Fold adds one reconstructed embed to the source aggregate. ts is only used
// when hasTime is true; without it no day or hour bucket is touched.
func (c *Calculator) Fold(s *parser.Session, ts time.Time, hasTime bool, into *types.SourceStats) {
	var (
		day  types.Date
		hour int
	)
	if hasTime {
		local := ts.In(c.location)
		day = types.Date(local.Format(types.DateFormat))
		hour = local.Hour()
	}

	if s.IsChat {
		into.ChatCount++

		for admin := range s.Responders {
			stats := into.Admin(admin)
			stats.Sessions++
			if c.creditsAhelp(s, admin) {
				stats.Ahelps++
				if hasTime {
					into.AddDaily(day, admin, 1)
				}
			}
		}

		for admin := range s.AdminOnlyResponders {
			stats := into.Admin(admin)
			stats.AdminOnlySessions++
			if c.creditsAhelp(s, admin) {
				stats.AdminOnlyAhelps++
				if hasTime {
					into.AddDailyAdminOnly(day, admin, 1)
				}
			}
		}
	}

	for admin, n := range s.Mentions {
		into.Admin(admin).Mentions += n
	}
	for admin, n := range s.AdminOnlyMentions {
		into.Admin(admin).AdminOnlyMentions += n
	}

	// Not gated on IsChat: the hourly tally follows player messages only.
	if s.HasPlayerMessage && hasTime {
		bucket := into.Hour(day, hour)
		bucket.Total++
		if s.HasAdminResponse {
			bucket.Processed++
		}
	}

	for admin, role := range s.Roles {
		if role != "" && role != types.RoleUnknown {
			into.Admin(admin).Role = parser.Normalize(role)
		}
	}
}

func (c *Calculator) creditsAhelp(s *parser.Session, admin string) bool {
	if !s.HasPlayerMessage {
		return false
	}
	if c.skipSelfAhelps && s.IsPlayer(admin) {
		return false
	}
	return true
}

// AggregateSource folds every embed of every record into a new SourceStats.
// With an active window, records without a timestamp are skipped.
func (c *Calculator) AggregateSource(name string, records []Record, w *Window) *types.SourceStats {
	stats := types.NewSourceStats(name)

	var skippedNoTime, skippedWindow, embeds int
	for _, rec := range records {
		if rec == nil {
			continue
		}

		ts, hasTime := rec.Time()
		if w.Active() {
			if !hasTime {
				skippedNoTime++
				continue
			}
			if !w.Contains(ts) {
				skippedWindow++
				continue
			}
		}

		for _, text := range rec.EmbedTexts() {
			if text == "" {
				continue
			}
			embeds++
			c.Fold(parser.ReconstructText(text), ts, hasTime, stats)
		}
	}

	if skippedNoTime > 0 {
		log.Warn().
			Str("source", name).
			Int("records", skippedNoTime).
			Msg("skipped records without a valid timestamp")
	}

	ahelps, adminOnly := stats.TotalAhelps()
	log.Info().
		Str("source", name).
		Int("embeds", embeds).
		Int("outside_window", skippedWindow).
		Int("chats", stats.ChatCount).
		Int("ahelps", ahelps).
		Int("admin_only_ahelps", adminOnly).
		Msg("source analyzed")

	return stats
}

// AggregateMessages is AggregateSource over loaded messages.
func (c *Calculator) AggregateMessages(name string, messages []types.Message, w *Window) *types.SourceStats {
	records := make([]Record, len(messages))
	for i := range messages {
		records[i] = messages[i]
	}
	return c.AggregateSource(name, records, w)
}

// AggregateAll aggregates each source independently and merges the results.
func (c *Calculator) AggregateAll(sources []types.Source, w *Window) *types.GlobalStats {
	perSource := make(map[string]*types.SourceStats, len(sources))
	for _, src := range sources {
		perSource[src.Name] = c.AggregateMessages(src.Name, src.Messages, w)
	}
	return Merge(perSource)
}
