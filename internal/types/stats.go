package types

// RoleUnknown is stored when no role has been seen for an administrator.
const RoleUnknown = "Unknown"

// DateFormat is the layout of Date keys.
const DateFormat = "2006-01-02"

// Date is a calendar day key in YYYY-MM-DD form
type Date string

// AdminStats holds the counters of one administrator within one source (or globally after merging)
type AdminStats struct {
	Ahelps            int    `json:"ahelps"`
	Mentions          int    `json:"mentions"`
	Sessions          int    `json:"sessions"`
	AdminOnlyAhelps   int    `json:"admin_only_ahelps"`
	AdminOnlyMentions int    `json:"admin_only_mentions"`
	AdminOnlySessions int    `json:"admin_only_sessions"`
	Role              string `json:"role"`
}

func NewAdminStats() *AdminStats {
	return &AdminStats{Role: RoleUnknown}
}

// HasRole reports whether a real role has been recorded.
func (s *AdminStats) HasRole() bool {
	return s.Role != "" && s.Role != RoleUnknown
}

// Add sums every counter of other into s. The role is left untouched.
func (s *AdminStats) Add(other *AdminStats) {
	s.Ahelps += other.Ahelps
	s.Mentions += other.Mentions
	s.Sessions += other.Sessions
	s.AdminOnlyAhelps += other.AdminOnlyAhelps
	s.AdminOnlyMentions += other.AdminOnlyMentions
	s.AdminOnlySessions += other.AdminOnlySessions
}

// HourBucket tracks help requests and how many of them got an admin response
type HourBucket struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
}

// ResponseRate returns Processed/Total in the range [0,1].
func (b HourBucket) ResponseRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Processed) / float64(b.Total)
}

// SourceStats is the aggregate of a single source (one server export)
type SourceStats struct {
	Name                 string                       `json:"name"`
	Admins               map[string]*AdminStats       `json:"admin_stats"`
	ChatCount            int                          `json:"chat_count"`
	DailyAhelps          map[Date]map[string]int      `json:"daily_ahelps"`
	DailyAdminOnlyAhelps map[Date]map[string]int      `json:"daily_admin_only_ahelps"`
	HourlyAhelps         map[Date]map[int]*HourBucket `json:"hourly_ahelps"`
}

func NewSourceStats(name string) *SourceStats {
	return &SourceStats{
		Name:                 name,
		Admins:               make(map[string]*AdminStats),
		DailyAhelps:          make(map[Date]map[string]int),
		DailyAdminOnlyAhelps: make(map[Date]map[string]int),
		HourlyAhelps:         make(map[Date]map[int]*HourBucket),
	}
}

// Admin returns the stats for key, inserting a zeroed entry on first use.
func (s *SourceStats) Admin(key string) *AdminStats {
	stats, ok := s.Admins[key]
	if !ok {
		stats = NewAdminStats()
		s.Admins[key] = stats
	}
	return stats
}

func (s *SourceStats) AddDaily(day Date, admin string, n int) {
	addDaily(s.DailyAhelps, day, admin, n)
}

func (s *SourceStats) AddDailyAdminOnly(day Date, admin string, n int) {
	addDaily(s.DailyAdminOnlyAhelps, day, admin, n)
}

// Hour returns the bucket for day/hour, inserting an empty one on first use.
func (s *SourceStats) Hour(day Date, hour int) *HourBucket {
	hours, ok := s.HourlyAhelps[day]
	if !ok {
		hours = make(map[int]*HourBucket)
		s.HourlyAhelps[day] = hours
	}
	bucket, ok := hours[hour]
	if !ok {
		bucket = &HourBucket{}
		hours[hour] = bucket
	}
	return bucket
}

// TotalAhelps sums the ordinary ahelps of every admin in the source.
func (s *SourceStats) TotalAhelps() (ahelps, adminOnly int) {
	for _, a := range s.Admins {
		ahelps += a.Ahelps
		adminOnly += a.AdminOnlyAhelps
	}
	return ahelps, adminOnly
}

// HelpRequests sums the hourly buckets of the source.
func (s *SourceStats) HelpRequests() HourBucket {
	var total HourBucket
	for _, hours := range s.HourlyAhelps {
		for _, b := range hours {
			total.Total += b.Total
			total.Processed += b.Processed
		}
	}
	return total
}

func addDaily(table map[Date]map[string]int, day Date, admin string, n int) {
	admins, ok := table[day]
	if !ok {
		admins = make(map[string]int)
		table[day] = admins
	}
	admins[admin] += n
}

// GlobalStats is the union of all sources after identity merging
type GlobalStats struct {
	Admins    map[string]*AdminStats  `json:"admin_stats"`
	ChatCount int                     `json:"chat_count"`
	Sources   map[string]*SourceStats `json:"servers"`
}

func NewGlobalStats() *GlobalStats {
	return &GlobalStats{
		Admins:  make(map[string]*AdminStats),
		Sources: make(map[string]*SourceStats),
	}
}

// Admin returns the global stats for key, inserting a zeroed entry on first use.
func (g *GlobalStats) Admin(key string) *AdminStats {
	stats, ok := g.Admins[key]
	if !ok {
		stats = NewAdminStats()
		g.Admins[key] = stats
	}
	return stats
}
