package core

import (
	"testing"

	"github.com/frcscout/picklist/team"
)

func testPriorities() []team.NormalizedPriority {
	return []team.NormalizedPriority{
		{ID: "auto", Weight: 0.5, OriginalWeight: 2},
		{ID: "teleop", Weight: 0.3, OriginalWeight: 1.2},
		{ID: "defense", Weight: 0.2, OriginalWeight: 0.8},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	a := Fingerprint(req, testPriorities())
	b := Fingerprint(req, testPriorities())
	if a != b {
		t.Errorf("Fingerprint not deterministic: %q != %q", a, b)
	}
}

func TestFingerprintOrderInvariant(t *testing.T) {
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}

	p1 := testPriorities()
	p2 := []team.NormalizedPriority{p1[2], p1[0], p1[1]}

	a := Fingerprint(req, p1)
	b := Fingerprint(req, p2)
	if a != b {
		t.Errorf("Fingerprint not invariant to priority order: %q != %q", a, b)
	}
}

func TestFingerprintExcludeOrderInvariant(t *testing.T) {
	req1 := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst, ExcludeTeams: []int{5, 3, 9}}
	req2 := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst, ExcludeTeams: []int{9, 5, 3}}

	a := Fingerprint(req1, testPriorities())
	b := Fingerprint(req2, testPriorities())
	if a != b {
		t.Errorf("Fingerprint not invariant to exclude_teams order: %q != %q", a, b)
	}
}

func TestFingerprintDiffersOnTeam(t *testing.T) {
	req1 := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	req2 := team.Request{YourTeamNumber: 5678, PickPosition: team.PickFirst}

	a := Fingerprint(req1, testPriorities())
	b := Fingerprint(req2, testPriorities())
	if a == b {
		t.Error("expected different fingerprints for different your_team_number")
	}
}

func TestFingerprintDiffersOnPickPosition(t *testing.T) {
	req1 := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	req2 := team.Request{YourTeamNumber: 1234, PickPosition: team.PickSecond}

	a := Fingerprint(req1, testPriorities())
	b := Fingerprint(req2, testPriorities())
	if a == b {
		t.Error("expected different fingerprints for different pick_position")
	}
}

func TestFingerprintIsHex16(t *testing.T) {
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	fp := Fingerprint(req, testPriorities())
	if len(fp) != 16 {
		t.Errorf("expected 16 hex characters, got %d (%q)", len(fp), fp)
	}
	for _, r := range fp {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Errorf("fingerprint %q contains non-hex character %q", fp, r)
		}
	}
}
