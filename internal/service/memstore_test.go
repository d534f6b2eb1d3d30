package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
)

// ============================================================================
// In-memory store
// ============================================================================

// memStore implements ClubRepository, UserRepository and MembershipRepository
// over maps. The *Err fields inject failures into single methods.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	clubs  map[string]*model.Club
	nextID int
	clock  time.Time

	listErr                error
	getDetailErr           error
	getByNameErr           error
	createClubErr          error
	deleteErr              error
	addMemberErr           error
	removeMemberErr        error
	addClubErr             error
	removeClubErr          error
	removeClubFromUsersErr error
	linkErr                error

	linkCalls   int
	unlinkCalls int
	writes      int
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*model.User),
		clubs: make(map[string]*model.Club),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func qualify(table, id string) string {
	if id == "" || strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addUser(name string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := &model.User{
		ID:        fmt.Sprintf("user:u%d", m.nextID),
		Name:      name,
		Username:  strings.ToLower(name),
		Email:     strings.ToLower(name) + "@example.com",
		Roles:     []model.UserRole{model.UserRoleUser},
		Clubs:     []string{},
		CreatedOn: m.tick(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) user(id string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[qualify("user", id)]
	if !ok {
		return nil
	}
	cp := *u
	cp.Clubs = append([]string{}, u.Clubs...)
	return &cp
}

func (m *memStore) club(id string) *model.Club {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clubs[qualify("club", id)]
	if !ok {
		return nil
	}
	cp := *c
	cp.UsersList = append([]string{}, c.UsersList...)
	return &cp
}

func setAdd(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

func setRemove(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ClubRepository

func (m *memStore) Create(_ context.Context, club *model.Club) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createClubErr != nil {
		return m.createClubErr
	}
	for _, c := range m.clubs {
		if c.Name == club.Name {
			return fmt.Errorf("%w: club name %q", database.ErrDuplicate, club.Name)
		}
	}
	m.nextID++
	now := m.tick()
	club.ID = fmt.Sprintf("club:c%d", m.nextID)
	club.Admin = qualify("user", club.Admin)
	club.UsersList = []string{club.Admin}
	club.CreatedOn = now
	club.UpdatedOn = now
	cp := *club
	cp.UsersList = append([]string{}, club.UsersList...)
	m.clubs[club.ID] = &cp
	m.writes++
	return nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*model.Club, error) {
	if m.getByNameErr != nil {
		return nil, m.getByNameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clubs {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context) ([]*model.ClubListing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ClubListing, 0, len(m.clubs))
	for _, c := range m.clubs {
		var admin *model.PublicUser
		if u, ok := m.users[c.Admin]; ok {
			admin = u.ToPublic()
		}
		out = append(out, &model.ClubListing{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
			Admin:       admin,
			UsersList:   append([]string{}, c.UsersList...),
			CreatedOn:   c.CreatedOn,
			UpdatedOn:   c.UpdatedOn,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
	return out, nil
}

func (m *memStore) GetDetail(_ context.Context, id string) (*model.ClubDetail, error) {
	if m.getDetailErr != nil {
		return nil, m.getDetailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clubs[qualify("club", id)]
	if !ok {
		return nil, nil
	}
	detail := &model.ClubDetail{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		UsersList:   []*model.PublicUser{},
		CreatedOn:   c.CreatedOn,
		UpdatedOn:   c.UpdatedOn,
	}
	if u, ok := m.users[c.Admin]; ok {
		detail.Admin = u.ToPublic()
	}
	for _, uid := range c.UsersList {
		if u, ok := m.users[uid]; ok {
			detail.UsersList = append(detail.UsersList, u.ToPublic())
		}
	}
	return detail, nil
}

func (m *memStore) Delete(_ context.Context, id string) (*model.Club, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id = qualify("club", id)
	c, ok := m.clubs[id]
	if !ok {
		return nil, nil
	}
	delete(m.clubs, id)
	m.writes++
	return c, nil
}

func (m *memStore) AddMember(_ context.Context, clubID, userID string) (bool, error) {
	if m.addMemberErr != nil {
		return false, m.addMemberErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clubs[qualify("club", clubID)]
	if !ok {
		return false, nil
	}
	c.UsersList = setAdd(c.UsersList, qualify("user", userID))
	m.writes++
	return true, nil
}

func (m *memStore) RemoveMember(_ context.Context, clubID, userID string) (bool, error) {
	if m.removeMemberErr != nil {
		return false, m.removeMemberErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clubs[qualify("club", clubID)]
	if !ok {
		return false, nil
	}
	c.UsersList = setRemove(c.UsersList, qualify("user", userID))
	m.writes++
	return true, nil
}

// UserRepository. GetByID serves both interfaces by table prefix.

func (m *memStore) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.user(id), nil
}

func (m *memStore) AddClub(_ context.Context, userID, clubID string) (bool, error) {
	if m.addClubErr != nil {
		return false, m.addClubErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[qualify("user", userID)]
	if !ok {
		return false, nil
	}
	u.Clubs = setAdd(u.Clubs, qualify("club", clubID))
	m.writes++
	return true, nil
}

func (m *memStore) RemoveClub(_ context.Context, userID, clubID string) (bool, error) {
	if m.removeClubErr != nil {
		return false, m.removeClubErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[qualify("user", userID)]
	if !ok {
		return false, nil
	}
	u.Clubs = setRemove(u.Clubs, qualify("club", clubID))
	m.writes++
	return true, nil
}

func (m *memStore) RemoveClubFromUsers(_ context.Context, clubID string, userIDs []string) (int, error) {
	if m.removeClubFromUsersErr != nil {
		return 0, m.removeClubFromUsersErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range userIDs {
		u, ok := m.users[qualify("user", id)]
		if !ok || u.Disabled {
			continue
		}
		u.Clubs = setRemove(u.Clubs, qualify("club", clubID))
		n++
	}
	m.writes++
	return n, nil
}

// MembershipRepository

func (m *memStore) Link(ctx context.Context, userID, clubID string) error {
	m.linkCalls++
	if m.linkErr != nil {
		return m.linkErr
	}
	if _, err := m.AddMember(ctx, clubID, userID); err != nil {
		return err
	}
	_, err := m.AddClub(ctx, userID, clubID)
	return err
}

func (m *memStore) Unlink(ctx context.Context, userID, clubID string) error {
	m.unlinkCalls++
	if m.linkErr != nil {
		return m.linkErr
	}
	if _, err := m.RemoveMember(ctx, clubID, userID); err != nil {
		return err
	}
	_, err := m.RemoveClub(ctx, userID, clubID)
	return err
}

// clubRepoView adapts memStore so GetByID returns clubs for ClubRepository.
type clubRepoView struct{ *memStore }

func (v clubRepoView) GetByID(_ context.Context, id string) (*model.Club, error) {
	return v.club(id), nil
}

// ============================================================================
// Recorder
// ============================================================================

type recordedOp struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *fakeRecorder) RecordOperation(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation: operation, outcome: outcome})
}

func (r *fakeRecorder) last() recordedOp {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ops) == 0 {
		return recordedOp{}
	}
	return r.ops[len(r.ops)-1]
}

// ============================================================================
// Wiring
// ============================================================================

type fixture struct {
	store      *memStore
	recorder   *fakeRecorder
	clubs      *ClubService
	membership *MembershipService
}

func newFixture(mode MembershipMode) *fixture {
	store := newMemStore()
	rec := &fakeRecorder{}
	clubRepo := clubRepoView{store}
	return &fixture{
		store:    store,
		recorder: rec,
		clubs: NewClubService(ClubServiceConfig{
			ClubRepo: clubRepo,
			UserRepo: store,
			Recorder: rec,
		}),
		membership: NewMembershipService(MembershipServiceConfig{
			ClubRepo:       clubRepo,
			UserRepo:       store,
			MembershipRepo: store,
			Mode:           mode,
			Recorder:       rec,
		}),
	}
}

func (f *fixture) createClub(name string, admin *model.User) *model.Club {
	res, err := f.clubs.CreateClub(context.Background(), &model.CreateClubRequest{
		ClubName:    name,
		IDAdmin:     admin.ID,
		Description: name + " players",
		Category:    "games",
	})
	if err != nil {
		panic(err)
	}
	return res.Club
}
