package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/connection"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	statsCacheKey = "platform:stats"
	statsCacheTTL = 30 * time.Second
)

type ProfileSummary struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	ProfilePhoto   string
	Location       string
	Bio            string
	AverageRating  float64
	TotalReviews   int
	CompletedSwaps int
	Availability   user.Availability
	SkillsOffered  []string
	SkillsWanted   []string
}

func (p ProfileSummary) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type ProfilePage struct {
	Items         []ProfileSummary
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
}

type SearchParams struct {
	Search       string
	Availability *user.Availability
	Page         int
	Size         int
}

type PlatformStats struct {
	ActiveMembers           int64 `json:"active_members"`
	SuccessfulMatches       int64 `json:"successful_matches"`
	TotalSkillsOffered      int64 `json:"total_skills_offered"`
	TotalConnectionRequests int64 `json:"total_connection_requests"`
}

type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Bio             *string
	Location        *string
	IsProfilePublic *bool
	Availability    *user.Availability
}

type UpdateSkillsInput struct {
	Offered []string
	Wanted  []string
}

type ProfileUsecase interface {
	Search(ctx context.Context, p SearchParams) (ProfilePage, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (ProfileSummary, error)
	GetMyProfile(ctx context.Context, userID uuid.UUID) (ProfileSummary, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileSummary, error)
	UpdateSkills(ctx context.Context, userID uuid.UUID, in UpdateSkillsInput) (ProfileSummary, error)
	GetPlatformStats(ctx context.Context) PlatformStats
}

type Profile struct {
	users      repository.UserRepository
	userSkills repository.UserSkillRepository
	skills     repository.SkillRepository
	requests   repository.ConnectionRepository
	cache      StatsCache
}

func NewProfileUsecase(
	users repository.UserRepository,
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	requests repository.ConnectionRepository,
	cache StatsCache,
) *Profile {
	return &Profile{users: users, userSkills: userSkills, skills: skills, requests: requests, cache: cache}
}

// Search returns discoverable profiles ordered by rating, best first.
// A storage failure degrades to an empty page: discovery backs the
// landing view and must never surface an error there.
func (u *Profile) Search(ctx context.Context, p SearchParams) (ProfilePage, error) {
	page := p.Page
	if page < 0 {
		page = 0
	}
	size := p.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	search := strings.TrimSpace(p.Search)

	var (
		found []user.User
		total int64
		err   error
	)
	if search == "" && p.Availability == nil {
		found, total, err = u.users.FindPublicProfiles(ctx, size, page*size)
	} else {
		found, total, err = u.users.SearchProfiles(ctx, repository.SearchFilter{
			Search:       search,
			Availability: p.Availability,
			Limit:        size,
			Offset:       page * size,
		})
	}
	if err != nil {
		return emptyPage(page, size), nil
	}

	items := make([]ProfileSummary, 0, len(found))
	for _, usr := range found {
		items = append(items, u.toSummary(ctx, usr))
	}

	return pageOf(items, page, size, total), nil
}

func (u *Profile) GetPublicProfile(ctx context.Context, userID uuid.UUID) (ProfileSummary, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ProfileSummary{}, ErrNotFound
		}
		return ProfileSummary{}, ErrInternal
	}
	if !usr.Discoverable() {
		return ProfileSummary{}, ErrNotFound
	}
	return u.toSummary(ctx, usr), nil
}

func (u *Profile) GetMyProfile(ctx context.Context, userID uuid.UUID) (ProfileSummary, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ProfileSummary{}, ErrNotFound
		}
		return ProfileSummary{}, ErrInternal
	}
	return u.toSummary(ctx, usr), nil
}

func (u *Profile) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileSummary, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ProfileSummary{}, ErrNotFound
		}
		return ProfileSummary{}, ErrInternal
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return ProfileSummary{}, ErrInvalidInput
		}
		usr.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return ProfileSummary{}, ErrInvalidInput
		}
		usr.LastName = name
	}
	if in.Bio != nil {
		usr.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Location != nil {
		usr.Location = strings.TrimSpace(*in.Location)
	}
	if in.IsProfilePublic != nil {
		usr.IsProfilePublic = *in.IsProfilePublic
	}
	if in.Availability != nil {
		usr.Availability = *in.Availability
	}

	if err := u.users.Update(ctx, usr); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ProfileSummary{}, ErrNotFound
		}
		return ProfileSummary{}, ErrInternal
	}

	return u.toSummary(ctx, usr), nil
}

// UpdateSkills replaces both skill lists wholesale. Each name goes
// through catalog get-or-create, so unknown skills come into existence
// here.
func (u *Profile) UpdateSkills(ctx context.Context, userID uuid.UUID, in UpdateSkillsInput) (ProfileSummary, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ProfileSummary{}, ErrNotFound
		}
		return ProfileSummary{}, ErrInternal
	}

	offered, err := u.resolveSkillIDs(ctx, in.Offered)
	if err != nil {
		return ProfileSummary{}, err
	}
	wanted, err := u.resolveSkillIDs(ctx, in.Wanted)
	if err != nil {
		return ProfileSummary{}, err
	}

	if err := u.userSkills.ReplaceForUser(ctx, userID, offered, wanted); err != nil {
		return ProfileSummary{}, ErrInternal
	}

	return u.toSummary(ctx, usr), nil
}

// GetPlatformStats serves the landing dashboard. Counts degrade to
// zero on any storage failure; results ride the cache for a short TTL.
func (u *Profile) GetPlatformStats(ctx context.Context) PlatformStats {
	var stats PlatformStats
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, statsCacheKey, &stats); err == nil && hit {
			return stats
		}
	}

	if n, err := u.users.CountActiveVerified(ctx); err == nil {
		stats.ActiveMembers = n
	}
	if n, err := u.requests.CountByStatus(ctx, connection.StatusAccepted); err == nil {
		stats.SuccessfulMatches = n
	}
	if n, err := u.skills.CountOffered(ctx); err == nil {
		stats.TotalSkillsOffered = n
	}
	if n, err := u.requests.CountAll(ctx); err == nil {
		stats.TotalConnectionRequests = n
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)
	}

	return stats
}

func (u *Profile) resolveSkillIDs(ctx context.Context, names []string) ([]uuid.UUID, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		s, err := u.skills.GetOrCreate(ctx, name, skill.DefaultCategory)
		if err != nil {
			return nil, ErrInternal
		}
		out = append(out, s.ID)
	}
	return out, nil
}

// toSummary projects a user onto their public card. A failed skill
// lookup yields empty lists rather than failing the whole profile.
func (u *Profile) toSummary(ctx context.Context, usr user.User) ProfileSummary {
	s := basicSummary(usr)
	s.SkillsOffered = u.skillNames(ctx, usr.ID, skill.LinkOffered)
	s.SkillsWanted = u.skillNames(ctx, usr.ID, skill.LinkWanted)
	return s
}

func (u *Profile) skillNames(ctx context.Context, userID uuid.UUID, linkType skill.LinkType) []string {
	links, err := u.userSkills.FindByUserAndType(ctx, userID, linkType)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.SkillName)
	}
	return names
}

func basicSummary(usr user.User) ProfileSummary {
	availability := usr.Availability
	if availability == "" {
		availability = user.AvailabilityFlexible
	}
	return ProfileSummary{
		ID:             usr.ID,
		FirstName:      usr.FirstName,
		LastName:       usr.LastName,
		ProfilePhoto:   usr.ProfilePhoto,
		Location:       usr.Location,
		Bio:            usr.Bio,
		AverageRating:  usr.AverageRating,
		TotalReviews:   usr.TotalReviews,
		CompletedSwaps: usr.CompletedSwaps,
		Availability:   availability,
		SkillsOffered:  []string{},
		SkillsWanted:   []string{},
	}
}

func emptyPage(page, size int) ProfilePage {
	return ProfilePage{Items: []ProfileSummary{}, Page: page, Size: size}
}

func pageOf(items []ProfileSummary, page, size int, total int64) ProfilePage {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return ProfilePage{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       page+1 < totalPages,
		HasPrevious:   page > 0,
	}
}
