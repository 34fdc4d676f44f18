package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventhub/event-management/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu                sync.Mutex
	byID              map[int64]*domain.User
	nextID            int64
	firstAdminClaimed bool
	findErr           error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByRole(_ context.Context, role domain.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(user)
}

func (r *stubUserRepo) CreateFirstAdmin(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.firstAdminClaimed {
		return nil, domain.ErrAdminAlreadyRegistered
	}
	created, err := r.insertLocked(user)
	if err != nil {
		return nil, err
	}
	r.firstAdminClaimed = true
	return created, nil
}

func (r *stubUserRepo) insertLocked(user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = r.nextID
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

// seed stores user under a fixed id.
func (r *stubUserRepo) seed(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = cloneUser(user)
	if user.ID > r.nextID {
		r.nextID = user.ID
	}
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubEventRepo struct {
	byID    map[int64]*domain.Event
	nextID  int64
	deleted []int64
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{byID: make(map[int64]*domain.Event)}
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.nextID++
	c := *e
	c.ID = r.nextID
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubEventRepo) Update(_ context.Context, e *domain.Event) (*domain.Event, error) {
	if _, ok := r.byID[e.ID]; !ok {
		return nil, domain.ErrEventNotFound
	}
	c := *e
	r.byID[e.ID] = &c
	out := c
	return &out, nil
}

func (r *stubEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

func (r *stubEventRepo) FindAll(_ context.Context) ([]*domain.Event, error) {
	return r.filter(func(*domain.Event) bool { return true }), nil
}

func (r *stubEventRepo) FindByCreatorID(_ context.Context, creatorID int64) ([]*domain.Event, error) {
	return r.filter(func(e *domain.Event) bool { return e.CreatorID == creatorID }), nil
}

func (r *stubEventRepo) FindByIDs(_ context.Context, ids []int64) ([]*domain.Event, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(e *domain.Event) bool { return want[e.ID] }), nil
}

func (r *stubEventRepo) filter(keep func(*domain.Event) bool) []*domain.Event {
	out := []*domain.Event{}
	for _, e := range r.byID {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// seed stores event under its own id.
func (r *stubEventRepo) seed(e *domain.Event) {
	c := *e
	r.byID[e.ID] = &c
	if e.ID > r.nextID {
		r.nextID = e.ID
	}
}

type stubAttendeeRepo struct {
	byID   map[int64]*domain.Attendee
	nextID int64
}

func newStubAttendeeRepo() *stubAttendeeRepo {
	return &stubAttendeeRepo{byID: make(map[int64]*domain.Attendee)}
}

func (r *stubAttendeeRepo) Create(_ context.Context, a *domain.Attendee) (*domain.Attendee, error) {
	for _, existing := range r.byID {
		if existing.UserID == a.UserID && existing.EventID == a.EventID {
			return nil, domain.ErrAlreadyRegistered
		}
	}
	r.nextID++
	c := *a
	c.ID = r.nextID
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubAttendeeRepo) FindByID(_ context.Context, id int64) (*domain.Attendee, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAttendeeNotFound
	}
	c := *a
	return &c, nil
}

func (r *stubAttendeeRepo) FindByUserAndEvent(_ context.Context, userID, eventID int64) (*domain.Attendee, error) {
	for _, a := range r.byID {
		if a.UserID == userID && a.EventID == eventID {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrAttendeeNotFound
}

func (r *stubAttendeeRepo) FindByEventID(_ context.Context, eventID int64) ([]*domain.Attendee, error) {
	return r.filter(func(a *domain.Attendee) bool { return a.EventID == eventID }), nil
}

func (r *stubAttendeeRepo) FindByUserID(_ context.Context, userID int64) ([]*domain.Attendee, error) {
	return r.filter(func(a *domain.Attendee) bool { return a.UserID == userID }), nil
}

func (r *stubAttendeeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAttendeeNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAttendeeRepo) DeleteByEventID(_ context.Context, eventID int64) error {
	for id, a := range r.byID {
		if a.EventID == eventID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *stubAttendeeRepo) filter(keep func(*domain.Attendee) bool) []*domain.Attendee {
	out := []*domain.Attendee{}
	for _, a := range r.byID {
		if keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type recordingAudit struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (a *recordingAudit) Enqueue(r domain.AuditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r)
}

func (a *recordingAudit) last() domain.AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.records) == 0 {
		return domain.AuditRecord{}
	}
	return a.records[len(a.records)-1]
}

type stubLimiter struct {
	allow      bool
	allowErr   error
	blockAfter int
	failures   int
	successes  int
	usernames  []string
}

func (l *stubLimiter) Allow(_ context.Context, username, _ string) (bool, time.Duration, error) {
	l.usernames = append(l.usernames, username)
	if l.allowErr != nil {
		return false, 0, l.allowErr
	}
	if !l.allow {
		return false, time.Minute, nil
	}
	return true, 0, nil
}

func (l *stubLimiter) Failure(context.Context, string, string) (bool, time.Duration, error) {
	l.failures++
	if l.blockAfter > 0 && l.failures >= l.blockAfter {
		return true, time.Minute, nil
	}
	return false, 0, nil
}

func (l *stubLimiter) Success(context.Context, string, string) error {
	l.successes++
	return nil
}

func testHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

// countingHasher records how many hash comparisons ran.
type countingHasher struct {
	PasswordHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(hash, password string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(hash, password)
}
