package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type mockSkillRepo struct {
	items   []skill.Skill
	listErr error

	createErr    error
	createdNames []string
	offeredCount int64
	countErr     error
}

func (m *mockSkillRepo) List(context.Context) ([]skill.Skill, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockSkillRepo) GetByName(_ context.Context, name string) (skill.Skill, error) {
	for _, s := range m.items {
		if s.Name == name {
			return s, nil
		}
	}
	return skill.Skill{}, repository.ErrSkillNotFound
}

func (m *mockSkillRepo) GetOrCreate(_ context.Context, name, category string) (skill.Skill, error) {
	if m.createErr != nil {
		return skill.Skill{}, m.createErr
	}
	m.createdNames = append(m.createdNames, name)
	s := skill.Skill{ID: uuid.New(), Name: name, Category: category}
	m.items = append(m.items, s)
	return s, nil
}

func (m *mockSkillRepo) CountOffered(context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.offeredCount, nil
}

type mockUserSkillRepo struct {
	links   map[uuid.UUID][]skill.UserSkill
	findErr error

	replaceErr      error
	replacedOffered []uuid.UUID
	replacedWanted  []uuid.UUID
}

func (m *mockUserSkillRepo) FindByUserAndType(_ context.Context, userID uuid.UUID, linkType skill.LinkType) ([]skill.UserSkill, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []skill.UserSkill
	for _, l := range m.links[userID] {
		if l.Type == linkType {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockUserSkillRepo) ReplaceForUser(_ context.Context, _ uuid.UUID, offered, wanted []uuid.UUID) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedOffered = offered
	m.replacedWanted = wanted
	return nil
}

type mockStatsCache struct {
	data map[string][]byte
	sets int
}

func (m *mockStatsCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *mockStatsCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *mockStatsCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func profileFixture(users *mockUserRepo) (*Profile, *mockUserSkillRepo, *mockSkillRepo, *mockConnectionRepo) {
	userSkills := &mockUserSkillRepo{}
	skills := &mockSkillRepo{}
	requests := &mockConnectionRepo{}
	return NewProfileUsecase(users, userSkills, skills, requests, nil), userSkills, skills, requests
}

func TestProfileUsecase_Search_Pagination(t *testing.T) {
	found := make([]user.User, 5)
	for i := range found {
		found[i] = newMember(true)
	}
	users := &mockUserRepo{found: found, total: 5}
	uc, _, _, _ := profileFixture(users)

	page, err := uc.Search(context.Background(), SearchParams{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.TotalElements != 5 || page.TotalPages != 3 {
		t.Fatalf("expected total 5 over 3 pages, got %d/%d", page.TotalElements, page.TotalPages)
	}
	if !page.HasNext || !page.HasPrevious {
		t.Fatalf("middle page must have both neighbours")
	}
}

func TestProfileUsecase_Search_LastPage(t *testing.T) {
	found := make([]user.User, 5)
	for i := range found {
		found[i] = newMember(true)
	}
	users := &mockUserRepo{found: found, total: 5}
	uc, _, _, _ := profileFixture(users)

	page, err := uc.Search(context.Background(), SearchParams{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item on last page, got %d", len(page.Items))
	}
	if page.HasNext {
		t.Fatalf("last page must not advertise a next page")
	}
	if !page.HasPrevious {
		t.Fatalf("last page must have a previous page")
	}
}

func TestProfileUsecase_Search_PageBeyondRange(t *testing.T) {
	found := make([]user.User, 5)
	for i := range found {
		found[i] = newMember(true)
	}
	users := &mockUserRepo{found: found, total: 5}
	uc, _, _, _ := profileFixture(users)

	page, err := uc.Search(context.Background(), SearchParams{Page: 4, Size: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected no items past the last page, got %d", len(page.Items))
	}
	if page.HasNext {
		t.Fatalf("page past the end must not advertise a next page")
	}
	// hasPrevious depends only on the page number, so a page past the end
	// still reports one.
	if !page.HasPrevious {
		t.Fatalf("nonzero page must report a previous page")
	}
}

func TestProfileUsecase_Search_StorageErrorDegradesToEmptyPage(t *testing.T) {
	users := &mockUserRepo{searchErr: errors.New("db down")}
	uc, _, _, _ := profileFixture(users)

	page, err := uc.Search(context.Background(), SearchParams{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("discovery must not surface storage errors, got %v", err)
	}
	if len(page.Items) != 0 || page.TotalElements != 0 {
		t.Fatalf("expected empty page, got %d items", len(page.Items))
	}
	if page.Page != 0 || page.Size != 10 {
		t.Fatalf("empty page must echo requested paging")
	}
}

func TestProfileUsecase_Search_FilterPassedThrough(t *testing.T) {
	users := &mockUserRepo{}
	uc, _, _, _ := profileFixture(users)

	avail := user.AvailabilityWeekend
	if _, err := uc.Search(context.Background(), SearchParams{Search: " guitar ", Availability: &avail, Page: 0, Size: 10}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if users.lastFilter == nil {
		t.Fatalf("expected filtered search to hit SearchProfiles")
	}
	if users.lastFilter.Search != "guitar" {
		t.Fatalf("expected trimmed search term, got %q", users.lastFilter.Search)
	}
	if users.lastFilter.Availability == nil || *users.lastFilter.Availability != user.AvailabilityWeekend {
		t.Fatalf("availability filter lost in translation")
	}
}

func TestProfileUsecase_Search_NoFilterUsesBrowse(t *testing.T) {
	users := &mockUserRepo{}
	uc, _, _, _ := profileFixture(users)

	if _, err := uc.Search(context.Background(), SearchParams{Page: 0, Size: 10}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if users.lastFilter != nil {
		t.Fatalf("unfiltered discovery must not use the search path")
	}
}

func TestProfileUsecase_GetPublicProfile_HiddenWhenNotDiscoverable(t *testing.T) {
	private := newMember(false)
	unverified := newMember(true)
	unverified.EmailVerified = false
	users := &mockUserRepo{users: map[uuid.UUID]user.User{
		private.ID:    private,
		unverified.ID: unverified,
	}}
	uc, _, _, _ := profileFixture(users)

	if _, err := uc.GetPublicProfile(context.Background(), private.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("private profile: expected ErrNotFound, got %v", err)
	}
	if _, err := uc.GetPublicProfile(context.Background(), unverified.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unverified profile: expected ErrNotFound, got %v", err)
	}
	if _, err := uc.GetPublicProfile(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown profile: expected ErrNotFound, got %v", err)
	}
}

func TestProfileUsecase_SkillLookupFailureYieldsEmptyLists(t *testing.T) {
	member := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{member.ID: member}}
	userSkills := &mockUserSkillRepo{findErr: errors.New("db down")}
	uc := NewProfileUsecase(users, userSkills, &mockSkillRepo{}, &mockConnectionRepo{}, nil)

	summary, err := uc.GetPublicProfile(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if summary.SkillsOffered == nil || len(summary.SkillsOffered) != 0 {
		t.Fatalf("expected empty offered list, got %v", summary.SkillsOffered)
	}
	if summary.SkillsWanted == nil || len(summary.SkillsWanted) != 0 {
		t.Fatalf("expected empty wanted list, got %v", summary.SkillsWanted)
	}
}

func TestProfileUsecase_UpdateProfile_BlankNameRejected(t *testing.T) {
	member := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{member.ID: member}}
	uc, _, _, _ := profileFixture(users)

	blank := "   "
	if _, err := uc.UpdateProfile(context.Background(), member.ID, UpdateProfileInput{FirstName: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProfileUsecase_UpdateProfile_PartialUpdate(t *testing.T) {
	member := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{member.ID: member}}
	uc, _, _, _ := profileFixture(users)

	bio := "  guitarist looking to learn spanish  "
	hidden := false
	summary, err := uc.UpdateProfile(context.Background(), member.ID, UpdateProfileInput{Bio: &bio, IsProfilePublic: &hidden})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if summary.Bio != "guitarist looking to learn spanish" {
		t.Fatalf("expected trimmed bio, got %q", summary.Bio)
	}
	if summary.FirstName != member.FirstName {
		t.Fatalf("untouched field changed")
	}
	if users.users[member.ID].IsProfilePublic {
		t.Fatalf("visibility toggle not persisted")
	}
}

func TestProfileUsecase_UpdateSkills_DedupesCaseInsensitively(t *testing.T) {
	member := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{member.ID: member}}
	userSkills := &mockUserSkillRepo{}
	skills := &mockSkillRepo{}
	uc := NewProfileUsecase(users, userSkills, skills, &mockConnectionRepo{}, nil)

	_, err := uc.UpdateSkills(context.Background(), member.ID, UpdateSkillsInput{
		Offered: []string{"Guitar", " guitar ", "", "Piano"},
		Wanted:  []string{"Spanish"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills.createdNames) != 3 {
		t.Fatalf("expected 3 catalog lookups, got %v", skills.createdNames)
	}
	if len(userSkills.replacedOffered) != 2 || len(userSkills.replacedWanted) != 1 {
		t.Fatalf("expected 2 offered and 1 wanted, got %d/%d",
			len(userSkills.replacedOffered), len(userSkills.replacedWanted))
	}
}

func TestProfileUsecase_GetPlatformStats_AcceptCountsAsMatch(t *testing.T) {
	users, requests, sender, receiver := connectionFixture()
	connUC := NewConnectionUsecase(users, requests)
	profileUC := NewProfileUsecase(users, &mockUserSkillRepo{}, &mockSkillRepo{}, requests, nil)

	before := profileUC.GetPlatformStats(context.Background())
	if before.SuccessfulMatches != 0 {
		t.Fatalf("expected 0 matches before accept, got %d", before.SuccessfulMatches)
	}

	sent, err := connUC.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	pending := profileUC.GetPlatformStats(context.Background())
	if pending.SuccessfulMatches != 0 {
		t.Fatalf("a pending request is not a match, got %d", pending.SuccessfulMatches)
	}
	if pending.TotalConnectionRequests != 1 {
		t.Fatalf("expected 1 total request, got %d", pending.TotalConnectionRequests)
	}

	if _, err := connUC.Accept(context.Background(), receiver.ID, sent.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	after := profileUC.GetPlatformStats(context.Background())
	if after.SuccessfulMatches != before.SuccessfulMatches+1 {
		t.Fatalf("expected matches to increment by 1, got %d", after.SuccessfulMatches)
	}
}

func TestProfileUsecase_GetPlatformStats_DegradesToZero(t *testing.T) {
	users := &mockUserRepo{err: errors.New("db down")}
	skills := &mockSkillRepo{countErr: errors.New("db down")}
	requests := &mockConnectionRepo{countErr: errors.New("db down")}
	uc := NewProfileUsecase(users, &mockUserSkillRepo{}, skills, requests, nil)

	stats := uc.GetPlatformStats(context.Background())
	if stats.ActiveMembers != 0 || stats.SuccessfulMatches != 0 ||
		stats.TotalSkillsOffered != 0 || stats.TotalConnectionRequests != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}

func TestProfileUsecase_GetPlatformStats_CacheHit(t *testing.T) {
	member := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{member.ID: member}}
	cache := &mockStatsCache{}
	skills := &mockSkillRepo{offeredCount: 7}
	uc := NewProfileUsecase(users, &mockUserSkillRepo{}, skills, &mockConnectionRepo{}, cache)

	first := uc.GetPlatformStats(context.Background())
	if first.TotalSkillsOffered != 7 {
		t.Fatalf("expected 7 offered skills, got %d", first.TotalSkillsOffered)
	}
	if cache.sets != 1 {
		t.Fatalf("expected stats written to cache once, got %d", cache.sets)
	}

	// Second read rides the cache even though the repo now reports a
	// different count.
	skills.offeredCount = 9
	second := uc.GetPlatformStats(context.Background())
	if second != first {
		t.Fatalf("expected cached stats, got %+v", second)
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not rewrite the entry")
	}
}
