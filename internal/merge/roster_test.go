package merge

import (
	"testing"
	"time"

	"github.com/sarops/missionline/internal/model"
)

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func atp(hour, min int) *time.Time {
	t := at(hour, min)
	return &t
}

func miles(n int) *int { return &n }

func signIn(id, member int64, in time.Time, out *time.Time) model.SignIn {
	return model.SignIn{ID: id, EventID: id % 2, MemberID: member, TimeIn: in, TimeOut: out}
}

func TestRostersOverlapCoalescesToUnion(t *testing.T) {
	// Member 7 responded 09:00-11:00 on the duplicate and 10:30-12:00 on
	// the survivor; the merged roster must hold one interval 09:00-12:00.
	from := []model.SignIn{signIn(1, 7, at(9, 0), atp(11, 0))}
	into := []model.SignIn{signIn(2, 7, at(10, 30), atp(12, 0))}

	res := Rosters(10, from, into)

	if len(res.Merged) != 1 {
		t.Fatalf("expected 1 merged sign-in, got %d", len(res.Merged))
	}
	got := res.Merged[0]
	if !got.TimeIn.Equal(at(9, 0)) {
		t.Errorf("expected time-in 09:00, got %v", got.TimeIn)
	}
	if got.TimeOut == nil || !got.TimeOut.Equal(at(12, 0)) {
		t.Errorf("expected time-out 12:00, got %v", got.TimeOut)
	}
	if got.EventID != 10 {
		t.Errorf("survivor should be owned by event 10, got %d", got.EventID)
	}
	if len(res.Removed) != 1 || res.Removed[0] != 2 {
		t.Errorf("expected sign-in 2 to be absorbed, got %v", res.Removed)
	}
}

func TestRostersGapKeepsBothIntervals(t *testing.T) {
	from := []model.SignIn{signIn(1, 7, at(9, 0), atp(10, 0))}
	into := []model.SignIn{signIn(2, 7, at(11, 0), atp(12, 0))}

	res := Rosters(10, from, into)

	if len(res.Merged) != 2 {
		t.Fatalf("expected 2 distinct sign-ins, got %d", len(res.Merged))
	}
	if len(res.Removed) != 0 {
		t.Errorf("nothing should be absorbed, got %v", res.Removed)
	}
	if !res.Merged[0].TimeIn.Equal(at(9, 0)) || !res.Merged[1].TimeIn.Equal(at(11, 0)) {
		t.Errorf("output not sorted by time-in: %v, %v", res.Merged[0].TimeIn, res.Merged[1].TimeIn)
	}
}

func TestRostersTouchingIntervalsMerge(t *testing.T) {
	// time-in equal to the prior time-out is an overlap, not a gap.
	from := []model.SignIn{signIn(1, 7, at(9, 0), atp(10, 0))}
	into := []model.SignIn{signIn(2, 7, at(10, 0), atp(12, 0))}

	res := Rosters(10, from, into)

	if len(res.Merged) != 1 {
		t.Fatalf("touching intervals should coalesce, got %d rows", len(res.Merged))
	}
	if res.Merged[0].TimeOut == nil || !res.Merged[0].TimeOut.Equal(at(12, 0)) {
		t.Errorf("expected time-out 12:00, got %v", res.Merged[0].TimeOut)
	}
}

func TestRostersSubsumedIntervalKeepsOuter(t *testing.T) {
	from := []model.SignIn{signIn(1, 7, at(9, 0), atp(14, 0))}
	into := []model.SignIn{signIn(2, 7, at(10, 0), atp(11, 0))}

	res := Rosters(10, from, into)

	if len(res.Merged) != 1 {
		t.Fatalf("expected 1 merged sign-in, got %d", len(res.Merged))
	}
	got := res.Merged[0]
	if !got.TimeIn.Equal(at(9, 0)) || got.TimeOut == nil || !got.TimeOut.Equal(at(14, 0)) {
		t.Errorf("expected outer interval 09:00-14:00, got %v-%v", got.TimeIn, got.TimeOut)
	}
}

func TestRostersOpenCandidateStaysOpen(t *testing.T) {
	// The later record is still checked in; the coalesced interval must
	// remain open-ended.
	from := []model.SignIn{signIn(1, 7, at(9, 0), atp(11, 0))}
	into := []model.SignIn{signIn(2, 7, at(10, 0), nil)}

	res := Rosters(10, from, into)

	if len(res.Merged) != 1 {
		t.Fatalf("expected 1 merged sign-in, got %d", len(res.Merged))
	}
	if res.Merged[0].TimeOut != nil {
		t.Errorf("expected open time-out, got %v", res.Merged[0].TimeOut)
	}
}

func TestRostersOpenCurrentAdoptsCandidateTimeOut(t *testing.T) {
	// The earlier record is open-ended, so it swallows the later one and
	// takes over its concrete time-out.
	from := []model.SignIn{signIn(1, 7, at(9, 0), nil)}
	into := []model.SignIn{signIn(2, 7, at(10, 30), atp(12, 0))}

	res := Rosters(10, from, into)

	if len(res.Merged) != 1 {
		t.Fatalf("expected 1 merged sign-in, got %d", len(res.Merged))
	}
	got := res.Merged[0]
	if !got.TimeIn.Equal(at(9, 0)) {
		t.Errorf("expected time-in 09:00, got %v", got.TimeIn)
	}
	if got.TimeOut == nil || !got.TimeOut.Equal(at(12, 0)) {
		t.Errorf("expected time-out 12:00, got %v", got.TimeOut)
	}
}

func TestRostersMembersAreIndependent(t *testing.T) {
	from := []model.SignIn{
		signIn(1, 3, at(9, 0), atp(11, 0)),
		signIn(2, 7, at(9, 0), atp(11, 0)),
	}
	into := []model.SignIn{
		signIn(3, 7, at(10, 0), atp(12, 0)),
		signIn(4, 9, at(9, 30), nil),
	}

	res := Rosters(10, from, into)

	if len(res.Merged) != 3 {
		t.Fatalf("expected 3 sign-ins (members 3, 7, 9), got %d", len(res.Merged))
	}
	for i := 1; i < len(res.Merged); i++ {
		if res.Merged[i-1].MemberID > res.Merged[i].MemberID {
			t.Errorf("output not sorted by member: %d before %d",
				res.Merged[i-1].MemberID, res.Merged[i].MemberID)
		}
	}
}

func TestRostersEmptySourceIsIdentity(t *testing.T) {
	// Re-merging an empty roster must leave the destination unchanged.
	into := []model.SignIn{
		signIn(1, 7, at(9, 0), atp(10, 0)),
		signIn(2, 7, at(11, 0), atp(12, 0)),
	}

	res := Rosters(10, nil, into)

	if len(res.Merged) != 2 || len(res.Removed) != 0 {
		t.Fatalf("expected identity merge, got %d rows, %d removed", len(res.Merged), len(res.Removed))
	}
	for i, want := range into {
		if res.Merged[i].ID != want.ID {
			t.Errorf("row %d: expected id %d, got %d", i, want.ID, res.Merged[i].ID)
		}
	}
}

func TestRostersNoDuplicateIdentities(t *testing.T) {
	from := []model.SignIn{
		signIn(1, 7, at(8, 0), atp(9, 30)),
		signIn(3, 7, at(9, 0), atp(11, 0)),
	}
	into := []model.SignIn{
		signIn(5, 7, at(10, 30), atp(12, 0)),
		signIn(7, 7, at(13, 0), nil),
	}

	res := Rosters(10, from, into)

	seen := map[int64]bool{}
	for _, s := range res.Merged {
		if seen[s.ID] {
			t.Errorf("sign-in id %d appears twice in the merged roster", s.ID)
		}
		seen[s.ID] = true
	}
	for _, id := range res.Removed {
		if seen[id] {
			t.Errorf("sign-in id %d appears both merged and removed", id)
		}
	}
	if len(res.Merged)+len(res.Removed) != 4 {
		t.Errorf("every input row must be accounted for, got %d+%d",
			len(res.Merged), len(res.Removed))
	}
}

func TestRostersMilesAccumulation(t *testing.T) {
	cases := []struct {
		name string
		a, b *int
		want *int
	}{
		{"both reported", miles(10), miles(5), miles(15)},
		{"only survivor reported", miles(10), nil, miles(10)},
		{"only absorbed reported", nil, miles(5), miles(5)},
		{"neither reported", nil, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := signIn(1, 7, at(9, 0), atp(11, 0))
			a.Miles = tc.a
			b := signIn(2, 7, at(10, 0), atp(12, 0))
			b.Miles = tc.b

			res := Rosters(10, []model.SignIn{a}, []model.SignIn{b})

			if len(res.Merged) != 1 {
				t.Fatalf("expected 1 merged sign-in, got %d", len(res.Merged))
			}
			got := res.Merged[0].Miles
			if tc.want == nil {
				if got != nil {
					t.Errorf("expected nil miles, got %d", *got)
				}
			} else if got == nil || *got != *tc.want {
				t.Errorf("expected %d miles, got %v", *tc.want, got)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b model.SignIn
		want bool
	}{
		{"disjoint", signIn(1, 7, at(9, 0), atp(10, 0)), signIn(2, 7, at(11, 0), nil), false},
		{"touching", signIn(1, 7, at(9, 0), atp(10, 0)), signIn(2, 7, at(10, 0), nil), true},
		{"contained", signIn(1, 7, at(9, 0), atp(14, 0)), signIn(2, 7, at(10, 0), atp(11, 0)), true},
		{"earlier open", signIn(1, 7, at(9, 0), nil), signIn(2, 7, at(18, 0), atp(19, 0)), true},
		{"argument order irrelevant", signIn(1, 7, at(11, 0), nil), signIn(2, 7, at(9, 0), atp(10, 0)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Errorf("Overlaps reversed = %v, want %v", got, tc.want)
			}
		})
	}
}
