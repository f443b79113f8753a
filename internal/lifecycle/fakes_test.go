package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"

	"github.com/shopspring/decimal"
)

// ==========================
// In-memory collaborators
// ==========================

type memStore struct {
	mu         sync.Mutex
	nextID     int64
	tick       int64
	profiles   map[string]*models.ApplicantProfile
	households map[string]*models.Household
	apps       map[int64]*models.HousingApplication
	docs       map[int64][]models.ApplicationDocument
	comments   map[int64][]models.ApplicationComment
	listings   map[int64]*models.Listing
	rates      map[string]*models.Amortization
	ami        map[int]*models.AmiConfig

	// beforeInsert and beforeUpdate run ahead of the store's own checks.
	beforeInsert func()
	beforeUpdate func()
	updateErr    error
	inserts      int
}

func newMemStore() *memStore {
	return &memStore{
		nextID:     1000,
		profiles:   map[string]*models.ApplicantProfile{},
		households: map[string]*models.Household{},
		apps:       map[int64]*models.HousingApplication{},
		docs:       map[int64][]models.ApplicationDocument{},
		comments:   map[int64][]models.ApplicationComment{},
		listings:   map[int64]*models.Listing{},
		rates:      map[string]*models.Amortization{},
		ami:        map[int]*models.AmiConfig{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) stamp() time.Time {
	m.tick++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.tick) * time.Second)
}

func notFound(what string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", what, key, errors.ErrNotFound)
}

func copyHousehold(h *models.Household) *models.Household {
	c := *h
	c.Members = append([]models.HouseholdMember(nil), h.Members...)
	c.Accounts = append([]models.HouseholdAccount(nil), h.Accounts...)
	return &c
}

func (m *memStore) GetProfile(_ context.Context, username string) (*models.ApplicantProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[username]
	if !ok {
		return nil, notFound("profile", username)
	}
	c := *p
	return &c, nil
}

func (m *memStore) GetHousehold(_ context.Context, username string) (*models.Household, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.households[username]
	if !ok {
		return nil, notFound("household", username)
	}
	return copyHousehold(h), nil
}

func (m *memStore) EnsureHousehold(_ context.Context, username string) (*models.Household, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.households[username]
	if !ok {
		h = &models.Household{ID: m.id(), Username: username}
		m.households[username] = h
	}
	return copyHousehold(h), nil
}

func (m *memStore) householdByID(id int64) (*models.Household, error) {
	for _, h := range m.households {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, notFound("household", id)
}

func (m *memStore) UpsertMember(_ context.Context, householdID int64, mem *models.HouseholdMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.householdByID(householdID)
	if err != nil {
		return err
	}
	if mem.ID == 0 {
		mem.ID = m.id()
		h.Members = append(h.Members, *mem)
		return nil
	}
	existing, ok := h.Member(mem.ID)
	if !ok {
		return notFound("member", mem.ID)
	}
	*existing = *mem
	return nil
}

func (m *memStore) UpsertAccount(_ context.Context, householdID int64, a *models.HouseholdAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.householdByID(householdID)
	if err != nil {
		return err
	}
	if a.ID == 0 {
		a.ID = m.id()
		h.Accounts = append(h.Accounts, *a)
		return nil
	}
	existing, ok := h.Account(a.ID)
	if !ok {
		return notFound("account", a.ID)
	}
	*existing = *a
	return nil
}

func (m *memStore) DeleteMember(_ context.Context, householdID, memberID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.householdByID(householdID)
	if err != nil {
		return err
	}
	members := h.Members[:0]
	for _, mem := range h.Members {
		if mem.ID != memberID {
			members = append(members, mem)
		}
	}
	h.Members = members
	accounts := h.Accounts[:0]
	for _, a := range h.Accounts {
		if a.PrimaryHolderMemberID != memberID {
			accounts = append(accounts, a)
		}
	}
	h.Accounts = accounts
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, householdID, accountID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.householdByID(householdID)
	if err != nil {
		return err
	}
	accounts := h.Accounts[:0]
	for _, a := range h.Accounts {
		if a.ID != accountID {
			accounts = append(accounts, a)
		}
	}
	h.Accounts = accounts
	return nil
}

func (m *memStore) GetApplication(_ context.Context, username string, id int64) (*models.HousingApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.Username != username {
		return nil, notFound("application", id)
	}
	c := *a
	return &c, nil
}

func (m *memStore) ListActiveApplications(_ context.Context, username string, listingID int64) ([]models.HousingApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active(username, listingID), nil
}

func (m *memStore) active(username string, listingID int64) []models.HousingApplication {
	var out []models.HousingApplication
	for _, a := range m.apps {
		if a.Username == username && a.ListingID == listingID && a.StatusCd != models.StatusWithdrawn {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// put stores an application directly, bypassing the uniqueness check.
func (m *memStore) put(a models.HousingApplication) *models.HousingApplication {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.id()
	}
	a.CreatedAt = m.stamp()
	a.UpdatedAt = a.CreatedAt
	m.apps[a.ID] = &a
	c := a
	return &c
}

func (m *memStore) InsertApplication(_ context.Context, app *models.HousingApplication) error {
	if m.beforeInsert != nil {
		hook := m.beforeInsert
		m.beforeInsert = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.active(app.Username, app.ListingID)) > 0 {
		return fmt.Errorf("insert application: %w", errors.ErrConflict)
	}
	m.inserts++
	app.ID = m.id()
	app.CreatedAt = m.stamp()
	app.UpdatedAt = app.CreatedAt
	c := *app
	m.apps[app.ID] = &c
	return nil
}

func (m *memStore) UpdateApplication(_ context.Context, app *models.HousingApplication) error {
	return m.write(app, models.StatusDraft)
}

func (m *memStore) UpdateStatus(_ context.Context, app *models.HousingApplication, from string) error {
	return m.write(app, from)
}

// write replaces the stored application while it is still in status from.
func (m *memStore) write(app *models.HousingApplication, from string) error {
	if m.beforeUpdate != nil {
		hook := m.beforeUpdate
		m.beforeUpdate = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.apps[app.ID]
	if !ok {
		return notFound("application", app.ID)
	}
	if stored.StatusCd != from {
		return fmt.Errorf("update application %d: status %s: %w", app.ID, stored.StatusCd, errors.ErrConflict)
	}
	app.UpdatedAt = m.stamp()
	c := *app
	m.apps[app.ID] = &c
	return nil
}

// setStatus changes a stored application's status behind the service's back.
func (m *memStore) setStatus(id int64, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[id].StatusCd = status
}

func (m *memStore) ListDocuments(_ context.Context, applicationID int64) ([]models.ApplicationDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ApplicationDocument(nil), m.docs[applicationID]...), nil
}

func (m *memStore) SaveDocument(_ context.Context, doc *models.ApplicationDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[doc.ApplicationID]
	if doc.ID != 0 {
		for i := range docs {
			if docs[i].ID == doc.ID {
				docs[i] = *doc
				return nil
			}
		}
		return notFound("document", doc.ID)
	}
	doc.ID = m.id()
	m.docs[doc.ApplicationID] = append(docs, *doc)
	return nil
}

func (m *memStore) ListComments(_ context.Context, applicationID int64) ([]models.ApplicationComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ApplicationComment(nil), m.comments[applicationID]...), nil
}

func (m *memStore) InsertComment(_ context.Context, c *models.ApplicationComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.comments[c.ApplicationID] = append(m.comments[c.ApplicationID], *c)
	return nil
}

func (m *memStore) GetListing(_ context.Context, id int64) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, notFound("listing", id)
	}
	c := *l
	return &c, nil
}

func (m *memStore) GetAmortization(_ context.Context, rate decimal.Decimal) (*models.Amortization, error) {
	for k, row := range m.rates {
		if decimal.RequireFromString(k).Equal(rate) {
			return row, nil
		}
	}
	return nil, notFound("amortization rate", rate)
}

func (m *memStore) GetAmiConfig(_ context.Context, year int) (*models.AmiConfig, error) {
	cfg, ok := m.ami[year]
	if !ok {
		return nil, notFound("ami config", year)
	}
	return cfg, nil
}

type staticRefData struct {
	dict refdata.Dictionary
	err  error
}

func (s *staticRefData) Load(_ context.Context, sets ...refdata.Set) (refdata.Dictionary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dict, nil
}

type recordingNotifier struct {
	notices []models.Notice
	err     error
}

func (r *recordingNotifier) Send(_ context.Context, n models.Notice) error {
	r.notices = append(r.notices, n)
	return r.err
}
