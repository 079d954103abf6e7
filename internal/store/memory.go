package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drims/disaster-server/internal/models"
)

// Memory is an in-memory Store implementation. It backs the test suite and
// can run the server without PostgreSQL for local development.
//
// Tx takes a snapshot of all tables and restores it when the transaction
// function fails, so multi-row workflows observe the same all-or-nothing
// semantics as the SQL store.
type Memory struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	users       map[uuid.UUID]models.User
	reports     map[uuid.UUID]models.DisasterReport
	shelters    map[uuid.UUID]models.Shelter
	requests    map[uuid.UUID]models.AidRequest
	skills      map[uuid.UUID]models.Skill
	profiles    map[uuid.UUID]models.VolunteerProfile
	assignments map[uuid.UUID]models.VolunteerAssignment
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{d: &data{
		users:       make(map[uuid.UUID]models.User),
		reports:     make(map[uuid.UUID]models.DisasterReport),
		shelters:    make(map[uuid.UUID]models.Shelter),
		requests:    make(map[uuid.UUID]models.AidRequest),
		skills:      make(map[uuid.UUID]models.Skill),
		profiles:    make(map[uuid.UUID]models.VolunteerProfile),
		assignments: make(map[uuid.UUID]models.VolunteerAssignment),
	}}
}

func (d *data) clone() *data {
	c := &data{
		users:       make(map[uuid.UUID]models.User, len(d.users)),
		reports:     make(map[uuid.UUID]models.DisasterReport, len(d.reports)),
		shelters:    make(map[uuid.UUID]models.Shelter, len(d.shelters)),
		requests:    make(map[uuid.UUID]models.AidRequest, len(d.requests)),
		skills:      make(map[uuid.UUID]models.Skill, len(d.skills)),
		profiles:    make(map[uuid.UUID]models.VolunteerProfile, len(d.profiles)),
		assignments: make(map[uuid.UUID]models.VolunteerAssignment, len(d.assignments)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.reports {
		c.reports[k] = v
	}
	for k, v := range d.shelters {
		c.shelters[k] = v
	}
	for k, v := range d.requests {
		c.requests[k] = v
	}
	for k, v := range d.skills {
		c.skills[k] = v
	}
	for k, v := range d.profiles {
		v.SkillIDs = append([]uuid.UUID(nil), v.SkillIDs...)
		c.profiles[k] = v
	}
	for k, v := range d.assignments {
		c.assignments[k] = v
	}
	return c
}

// Tx runs fn against the live tables under the store lock and rolls every
// write back if fn fails. Nested Tx calls join the enclosing transaction.
func (m *Memory) Tx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(&txView{d: m.d}); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

// txView exposes the data tables as a Store without re-locking.
type txView struct {
	d *data
}

func (t *txView) Tx(ctx context.Context, fn func(Store) error) error { return fn(t) }

func (m *Memory) run(fn func(*data) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.d)
}

// ---- Users ----

func (d *data) createUser(u *models.User) error {
	d.users[u.ID] = *u
	return nil
}

func (d *data) getUser(id uuid.UUID) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (d *data) getUserByUsername(username string) (*models.User, error) {
	for _, u := range d.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (d *data) updateUser(u *models.User) error {
	if _, ok := d.users[u.ID]; !ok {
		return ErrNotFound
	}
	d.users[u.ID] = *u
	return nil
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	return m.run(func(d *data) error { return d.createUser(u) })
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getUser(id)
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getUserByUsername(username)
}

func (m *Memory) UpdateUser(ctx context.Context, u *models.User) error {
	return m.run(func(d *data) error { return d.updateUser(u) })
}

func (t *txView) CreateUser(ctx context.Context, u *models.User) error { return t.d.createUser(u) }
func (t *txView) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return t.d.getUser(id)
}
func (t *txView) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return t.d.getUserByUsername(username)
}
func (t *txView) UpdateUser(ctx context.Context, u *models.User) error { return t.d.updateUser(u) }

// ---- Disaster reports ----

func (d *data) createDisasterReport(r *models.DisasterReport) error {
	d.reports[r.ID] = *r
	return nil
}

func (d *data) getDisasterReport(id uuid.UUID) (*models.DisasterReport, error) {
	r, ok := d.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (d *data) updateDisasterReport(r *models.DisasterReport) error {
	if _, ok := d.reports[r.ID]; !ok {
		return ErrNotFound
	}
	d.reports[r.ID] = *r
	return nil
}

func (d *data) listDisasterReports(f ReportFilter) ([]models.DisasterReport, error) {
	var out []models.DisasterReport
	now := time.Now()
	for _, r := range d.reports {
		if f.ActiveOnly && !r.IsActive {
			continue
		}
		if f.DisasterType != "" && r.DisasterType != f.DisasterType {
			continue
		}
		if f.Severity != 0 && r.Severity != f.Severity {
			continue
		}
		if !matchDateRange(r.ReportedAt, f.DateRange, now) {
			continue
		}
		if f.Location != "" && !containsFold(r.Location, f.Location) {
			continue
		}
		out = append(out, r)
	}
	sortReports(out, f.SortBy)
	return out, nil
}

func matchDateRange(t time.Time, dateRange string, now time.Time) bool {
	switch dateRange {
	case RangeToday:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case RangeWeek:
		return t.After(now.AddDate(0, 0, -7))
	case RangeMonth:
		return t.After(now.AddDate(0, 0, -30))
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortReports(reports []models.DisasterReport, sortBy string) {
	sort.SliceStable(reports, func(i, j int) bool {
		switch sortBy {
		case SortDateAsc:
			return reports[i].ReportedAt.Before(reports[j].ReportedAt)
		case SortSeverityDesc:
			return reports[i].Severity > reports[j].Severity
		case SortSeverityAsc:
			return reports[i].Severity < reports[j].Severity
		default: // SortDateDesc
			return reports[i].ReportedAt.After(reports[j].ReportedAt)
		}
	})
}

func (m *Memory) CreateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	return m.run(func(d *data) error { return d.createDisasterReport(r) })
}

func (m *Memory) GetDisasterReport(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getDisasterReport(id)
}

func (m *Memory) UpdateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	return m.run(func(d *data) error { return d.updateDisasterReport(r) })
}

func (m *Memory) ListDisasterReports(ctx context.Context, f ReportFilter) ([]models.DisasterReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listDisasterReports(f)
}

func (t *txView) CreateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	return t.d.createDisasterReport(r)
}
func (t *txView) GetDisasterReport(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	return t.d.getDisasterReport(id)
}
func (t *txView) UpdateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	return t.d.updateDisasterReport(r)
}
func (t *txView) ListDisasterReports(ctx context.Context, f ReportFilter) ([]models.DisasterReport, error) {
	return t.d.listDisasterReports(f)
}

// ---- Shelters ----

func (d *data) createShelter(s *models.Shelter) error {
	d.shelters[s.ID] = *s
	return nil
}

func (d *data) getShelter(id uuid.UUID) (*models.Shelter, error) {
	s, ok := d.shelters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (d *data) updateShelter(s *models.Shelter) error {
	if _, ok := d.shelters[s.ID]; !ok {
		return ErrNotFound
	}
	d.shelters[s.ID] = *s
	return nil
}

func (d *data) listShelters(f ShelterFilter) ([]models.Shelter, error) {
	var out []models.Shelter
	for _, s := range d.shelters {
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.Location != "" && !containsFold(s.Name, f.Location) && !containsFold(s.Address, f.Location) {
			continue
		}
		switch f.Capacity {
		case CapacitySmall:
			if s.Capacity >= 50 {
				continue
			}
		case CapacityMedium:
			if s.Capacity < 50 || s.Capacity > 100 {
				continue
			}
		case CapacityLarge:
			if s.Capacity <= 100 {
				continue
			}
		}
		switch f.Occupancy {
		case OccupancyAvailable:
			if s.IsFull() {
				continue
			}
		case OccupancyFull:
			if !s.IsFull() {
				continue
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) CreateShelter(ctx context.Context, s *models.Shelter) error {
	return m.run(func(d *data) error { return d.createShelter(s) })
}

func (m *Memory) GetShelter(ctx context.Context, id uuid.UUID) (*models.Shelter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getShelter(id)
}

func (m *Memory) UpdateShelter(ctx context.Context, s *models.Shelter) error {
	return m.run(func(d *data) error { return d.updateShelter(s) })
}

func (m *Memory) ListShelters(ctx context.Context, f ShelterFilter) ([]models.Shelter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listShelters(f)
}

func (t *txView) CreateShelter(ctx context.Context, s *models.Shelter) error {
	return t.d.createShelter(s)
}
func (t *txView) GetShelter(ctx context.Context, id uuid.UUID) (*models.Shelter, error) {
	return t.d.getShelter(id)
}
func (t *txView) UpdateShelter(ctx context.Context, s *models.Shelter) error {
	return t.d.updateShelter(s)
}
func (t *txView) ListShelters(ctx context.Context, f ShelterFilter) ([]models.Shelter, error) {
	return t.d.listShelters(f)
}

// ---- Aid requests ----

func (d *data) createAidRequest(r *models.AidRequest) error {
	d.requests[r.ID] = *r
	return nil
}

func (d *data) getAidRequest(id uuid.UUID) (*models.AidRequest, error) {
	r, ok := d.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (d *data) updateAidRequest(r *models.AidRequest) error {
	if _, ok := d.requests[r.ID]; !ok {
		return ErrNotFound
	}
	d.requests[r.ID] = *r
	return nil
}

func (d *data) listAidRequests(f AidRequestFilter) ([]models.AidRequest, error) {
	var out []models.AidRequest
	for _, r := range d.requests {
		if f.RequesterID != uuid.Nil && r.RequesterID != f.RequesterID {
			continue
		}
		if f.AidType != "" && r.AidType != f.AidType {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}

func (m *Memory) CreateAidRequest(ctx context.Context, r *models.AidRequest) error {
	return m.run(func(d *data) error { return d.createAidRequest(r) })
}

func (m *Memory) GetAidRequest(ctx context.Context, id uuid.UUID) (*models.AidRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getAidRequest(id)
}

func (m *Memory) UpdateAidRequest(ctx context.Context, r *models.AidRequest) error {
	return m.run(func(d *data) error { return d.updateAidRequest(r) })
}

func (m *Memory) ListAidRequests(ctx context.Context, f AidRequestFilter) ([]models.AidRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listAidRequests(f)
}

func (t *txView) CreateAidRequest(ctx context.Context, r *models.AidRequest) error {
	return t.d.createAidRequest(r)
}
func (t *txView) GetAidRequest(ctx context.Context, id uuid.UUID) (*models.AidRequest, error) {
	return t.d.getAidRequest(id)
}
func (t *txView) UpdateAidRequest(ctx context.Context, r *models.AidRequest) error {
	return t.d.updateAidRequest(r)
}
func (t *txView) ListAidRequests(ctx context.Context, f AidRequestFilter) ([]models.AidRequest, error) {
	return t.d.listAidRequests(f)
}

// ---- Skills ----

func (d *data) createSkill(s *models.Skill) error {
	d.skills[s.ID] = *s
	return nil
}

func (d *data) listSkills() ([]models.Skill, error) {
	out := make([]models.Skill, 0, len(d.skills))
	for _, s := range d.skills {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (d *data) getSkills(ids []uuid.UUID) ([]models.Skill, error) {
	out := make([]models.Skill, 0, len(ids))
	for _, id := range ids {
		s, ok := d.skills[id]
		if !ok {
			return nil, ErrNotFound
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Memory) CreateSkill(ctx context.Context, s *models.Skill) error {
	return m.run(func(d *data) error { return d.createSkill(s) })
}

func (m *Memory) ListSkills(ctx context.Context) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listSkills()
}

func (m *Memory) GetSkills(ctx context.Context, ids []uuid.UUID) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getSkills(ids)
}

func (t *txView) CreateSkill(ctx context.Context, s *models.Skill) error { return t.d.createSkill(s) }
func (t *txView) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return t.d.listSkills()
}
func (t *txView) GetSkills(ctx context.Context, ids []uuid.UUID) ([]models.Skill, error) {
	return t.d.getSkills(ids)
}

// ---- Volunteer profiles ----

func (d *data) createVolunteerProfile(p *models.VolunteerProfile) error {
	u, ok := d.users[p.UserID]
	if !ok {
		return ErrNotFound
	}
	if u.Role != models.RoleVolunteer {
		return ErrProfileRole
	}
	cp := *p
	cp.SkillIDs = append([]uuid.UUID(nil), p.SkillIDs...)
	d.profiles[p.UserID] = cp
	return nil
}

func (d *data) getVolunteerProfile(userID uuid.UUID) (*models.VolunteerProfile, error) {
	p, ok := d.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p.SkillIDs = append([]uuid.UUID(nil), p.SkillIDs...)
	return &p, nil
}

func (d *data) updateVolunteerProfile(p *models.VolunteerProfile) error {
	if _, ok := d.profiles[p.UserID]; !ok {
		return ErrNotFound
	}
	return d.createVolunteerProfile(p)
}

func (d *data) listVolunteerProfiles(f VolunteerFilter) ([]models.VolunteerProfile, error) {
	var out []models.VolunteerProfile
	for _, p := range d.profiles {
		if f.Availability != "" && p.Availability != f.Availability {
			continue
		}
		if f.SkillID != uuid.Nil && !containsID(p.SkillIDs, f.SkillID) {
			continue
		}
		p.SkillIDs = append([]uuid.UUID(nil), p.SkillIDs...)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (m *Memory) CreateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return m.run(func(d *data) error { return d.createVolunteerProfile(p) })
}

func (m *Memory) GetVolunteerProfile(ctx context.Context, userID uuid.UUID) (*models.VolunteerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getVolunteerProfile(userID)
}

func (m *Memory) UpdateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return m.run(func(d *data) error { return d.updateVolunteerProfile(p) })
}

func (m *Memory) ListVolunteerProfiles(ctx context.Context, f VolunteerFilter) ([]models.VolunteerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listVolunteerProfiles(f)
}

func (t *txView) CreateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return t.d.createVolunteerProfile(p)
}
func (t *txView) GetVolunteerProfile(ctx context.Context, userID uuid.UUID) (*models.VolunteerProfile, error) {
	return t.d.getVolunteerProfile(userID)
}
func (t *txView) UpdateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return t.d.updateVolunteerProfile(p)
}
func (t *txView) ListVolunteerProfiles(ctx context.Context, f VolunteerFilter) ([]models.VolunteerProfile, error) {
	return t.d.listVolunteerProfiles(f)
}

// ---- Assignments ----

func (d *data) createAssignment(a *models.VolunteerAssignment) error {
	d.assignments[a.ID] = *a
	return nil
}

func (d *data) getAssignment(id uuid.UUID) (*models.VolunteerAssignment, error) {
	a, ok := d.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (d *data) updateAssignment(a *models.VolunteerAssignment) error {
	if _, ok := d.assignments[a.ID]; !ok {
		return ErrNotFound
	}
	d.assignments[a.ID] = *a
	return nil
}

func (d *data) listAssignmentsByVolunteer(volunteerID uuid.UUID) ([]models.VolunteerAssignment, error) {
	var out []models.VolunteerAssignment
	for _, a := range d.assignments {
		if a.VolunteerID == volunteerID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

func (d *data) countAssignmentsByVolunteer(volunteerID uuid.UUID) (int, error) {
	n := 0
	for _, a := range d.assignments {
		if a.VolunteerID == volunteerID {
			n++
		}
	}
	return n, nil
}

func (d *data) hasActiveAssignment(aidRequestID uuid.UUID) (bool, error) {
	for _, a := range d.assignments {
		if a.AidRequestID == aidRequestID && a.Status != models.AssignmentCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	return m.run(func(d *data) error { return d.createAssignment(a) })
}

func (m *Memory) GetAssignment(ctx context.Context, id uuid.UUID) (*models.VolunteerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.getAssignment(id)
}

func (m *Memory) UpdateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	return m.run(func(d *data) error { return d.updateAssignment(a) })
}

func (m *Memory) ListAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.VolunteerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.listAssignmentsByVolunteer(volunteerID)
}

func (m *Memory) CountAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.countAssignmentsByVolunteer(volunteerID)
}

func (m *Memory) HasActiveAssignment(ctx context.Context, aidRequestID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.hasActiveAssignment(aidRequestID)
}

func (t *txView) CreateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	return t.d.createAssignment(a)
}
func (t *txView) GetAssignment(ctx context.Context, id uuid.UUID) (*models.VolunteerAssignment, error) {
	return t.d.getAssignment(id)
}
func (t *txView) UpdateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	return t.d.updateAssignment(a)
}
func (t *txView) ListAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.VolunteerAssignment, error) {
	return t.d.listAssignmentsByVolunteer(volunteerID)
}
func (t *txView) CountAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) (int, error) {
	return t.d.countAssignmentsByVolunteer(volunteerID)
}
func (t *txView) HasActiveAssignment(ctx context.Context, aidRequestID uuid.UUID) (bool, error) {
	return t.d.hasActiveAssignment(aidRequestID)
}

// ---- Dashboard ----

func (d *data) dashboardCounts() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	for _, r := range d.reports {
		stats.TotalReports++
		if r.IsActive {
			stats.ActiveReports++
		}
	}
	for _, r := range d.requests {
		stats.TotalAidRequests++
		if r.Status == models.AidRequestPending {
			stats.PendingAidRequests++
		}
	}
	for _, p := range d.profiles {
		stats.TotalVolunteers++
		if p.Availability == models.Available {
			stats.AvailableVolunteers++
		}
	}
	for _, s := range d.shelters {
		if !s.IsActive {
			continue
		}
		stats.TotalShelters++
		if !s.IsFull() {
			stats.AvailableShelters++
		}
	}
	return stats, nil
}

func (m *Memory) DashboardCounts(ctx context.Context) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.dashboardCounts()
}

func (t *txView) DashboardCounts(ctx context.Context) (*models.DashboardStats, error) {
	return t.d.dashboardCounts()
}
