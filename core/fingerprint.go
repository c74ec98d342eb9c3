// Fingerprint & Cache (C1): a deterministic cache key over the
// semantically significant parts of a request, and a process-local
// in-memory cache with TTL expiry.
//
// Information Hiding:
// - Canonicalization (sorting, key shape) is private to Fingerprint
// - The xxhash digest algorithm is an implementation detail

package core

import (
	"encoding/json"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/frcscout/picklist/team"
)

// canonicalInput is the sorted, minimal shape hashed to produce a
// fingerprint. Field order here does not matter for the hash (JSON
// encodes struct fields in declaration order, which is fixed), but every
// slice inside it MUST be pre-sorted by the caller so that semantically
// identical requests hash identically regardless of input ordering.
type canonicalInput struct {
	YourTeamNumber int                      `json:"your_team_number"`
	PickPosition   team.PickPosition        `json:"pick_position"`
	Priorities     []team.NormalizedPriority `json:"priorities"`
	ExcludeTeams   []int                    `json:"exclude_teams"`
	TeamNumbers    []int                    `json:"team_numbers"`
	UseBatching    *bool                    `json:"use_batching"`
}

// Fingerprint computes the deterministic cache key for req given its
// already-normalized priorities. Identical inputs MUST yield identical
// fingerprints across process restarts within the same code version.
func Fingerprint(req team.Request, normalized []team.NormalizedPriority) string {
	priorities := make([]team.NormalizedPriority, len(normalized))
	copy(priorities, normalized)
	sort.Slice(priorities, func(i, j int) bool { return priorities[i].ID < priorities[j].ID })

	exclude := append([]int(nil), req.ExcludeTeams...)
	sort.Ints(exclude)

	teamNumbers := append([]int(nil), req.TeamNumbers...)
	sort.Ints(teamNumbers)

	canon := canonicalInput{
		YourTeamNumber: req.YourTeamNumber,
		PickPosition:   req.PickPosition,
		Priorities:     priorities,
		ExcludeTeams:   exclude,
		TeamNumbers:    teamNumbers,
		UseBatching:    req.UseBatching,
	}

	// encoding/json marshals struct fields in declaration order and map
	// keys sorted lexicographically, so this is already canonical: no
	// nested maps appear in canonicalInput, only slices we sorted above.
	raw, err := json.Marshal(canon)
	if err != nil {
		// canonicalInput contains no types that can fail to marshal
		// (no channels, funcs, or cyclic structures).
		panic("core: fingerprint input failed to marshal: " + err.Error())
	}

	digest := xxhash.Sum64(raw)
	return toHex(digest)
}

func toHex(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
