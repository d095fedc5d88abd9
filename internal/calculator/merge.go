package calculator

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/sdpower/ahelpstats/internal/parser"
	"github.com/sdpower/ahelpstats/internal/types"
)

// MergeDuplicateAdmins re-keys admins by their normalized identity and sums
// the counters of identities that collapse together. A known role is kept;
// an unknown one is replaced by the first known role met in key order.
//
// Two different people whose names normalize identically are merged too;
// there is nothing in the export to tell them apart.
func MergeDuplicateAdmins(admins map[string]*types.AdminStats) map[string]*types.AdminStats {
	merged := make(map[string]*types.AdminStats, len(admins))
	mergeInto(merged, admins)
	return merged
}

// Merge builds the global view over all sources. Sources are folded in
// name order so role precedence does not depend on map iteration.
func Merge(sources map[string]*types.SourceStats) *types.GlobalStats {
	global := types.NewGlobalStats()

	for _, name := range sortedKeys(sources) {
		src := sources[name]
		if src == nil {
			continue
		}
		mergeInto(global.Admins, src.Admins)
		global.ChatCount += src.ChatCount
		global.Sources[name] = src
	}

	FillMissingRoles(global.Admins, sources)
	return global
}

// FillMissingRoles gives every admin still without a role the first known
// role found for the same identity, scanning sources in name order.
func FillMissingRoles(admins map[string]*types.AdminStats, sources map[string]*types.SourceStats) {
	names := sortedKeys(sources)
	lookup := make(map[string]map[string]*types.AdminStats, len(names))

	for key, stats := range admins {
		if stats.HasRole() {
			continue
		}
		for _, name := range names {
			if sources[name] == nil {
				continue
			}
			byIdentity, ok := lookup[name]
			if !ok {
				byIdentity = MergeDuplicateAdmins(sources[name].Admins)
				lookup[name] = byIdentity
			}
			if found, ok := byIdentity[key]; ok && found.HasRole() {
				stats.Role = parser.Normalize(found.Role)
				log.Debug().Str("admin", key).Str("source", name).Msg("filled missing role")
				break
			}
		}
	}
}

func mergeInto(dst, src map[string]*types.AdminStats) {
	for _, raw := range sortedKeys(src) {
		stats := src[raw]
		if stats == nil {
			continue
		}
		key := parser.Normalize(raw)
		target, ok := dst[key]
		if !ok {
			target = types.NewAdminStats()
			dst[key] = target
		}
		target.Add(stats)
		if !target.HasRole() && stats.HasRole() {
			target.Role = parser.Normalize(stats.Role)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
