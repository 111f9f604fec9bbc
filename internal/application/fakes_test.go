package application

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
)

// In-memory repository fakes. Each fake allows injecting an error per method
// so failure paths (saga compensation in particular) can be driven precisely.

type fakeUsers struct {
	mu      sync.Mutex
	seq     int
	byID    map[string]*entity.User
	errOn   map[string]error // method name -> error
	deleted []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}, errOn: map[string]error{}}
}

func (f *fakeUsers) fail(method string, err error) { f.errOn[method] = err }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["Create"]; err != nil {
		return err
	}
	f.seq++
	u.ID = "user-" + strconv.Itoa(f.seq)
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["GetByID"]; err != nil {
		return nil, err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["GetByEmail"]; err != nil {
		return nil, err
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) UpdateRoleStatus(_ context.Context, id string, role entity.Role, status entity.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["UpdateRoleStatus"]; err != nil {
		return err
	}
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Role = role
	u.Status = status
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["UpdatePassword"]; err != nil {
		return err
	}
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) SetEmailVerified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["SetEmailVerified"]; err != nil {
		return err
	}
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["Delete"]; err != nil {
		return err
	}
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUsers) ListReviewers(_ context.Context) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["ListReviewers"]; err != nil {
		return nil, err
	}
	var out []entity.User
	for _, u := range f.byID {
		if u.Role.CanReview() && u.Status == entity.StatusActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeOTPs struct {
	mu    sync.Mutex
	seq   int
	rows  []*entity.OTPVerification
	errOn map[string]error
}

func newFakeOTPs() *fakeOTPs {
	return &fakeOTPs{errOn: map[string]error{}}
}

func (f *fakeOTPs) fail(method string, err error) { f.errOn[method] = err }

func (f *fakeOTPs) count(email string, purpose entity.OTPPurpose) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if strings.EqualFold(r.Email, email) && r.Purpose == purpose {
			n++
		}
	}
	return n
}

func (f *fakeOTPs) Create(_ context.Context, v *entity.OTPVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["Create"]; err != nil {
		return err
	}
	f.seq++
	v.ID = "otp-" + strconv.Itoa(f.seq)
	v.Email = strings.ToLower(v.Email)
	cp := *v
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeOTPs) LatestByEmailPurpose(_ context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["LatestByEmailPurpose"]; err != nil {
		return nil, err
	}
	// rows append in creation order; last match is the most recent
	for i := len(f.rows) - 1; i >= 0; i-- {
		r := f.rows[i]
		if strings.EqualFold(r.Email, email) && r.Purpose == purpose {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeOTPs) DeleteByEmailPurpose(_ context.Context, email string, purpose entity.OTPPurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["DeleteByEmailPurpose"]; err != nil {
		return err
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if !(strings.EqualFold(r.Email, email) && r.Purpose == purpose) {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeOTPs) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["DeleteByID"]; err != nil {
		return err
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeRegs struct {
	mu       sync.Mutex
	seq      int
	byUserID map[string]*entity.RegistrationRequest
	errOn    map[string]error
}

func newFakeRegs() *fakeRegs {
	return &fakeRegs{byUserID: map[string]*entity.RegistrationRequest{}, errOn: map[string]error{}}
}

func (f *fakeRegs) fail(method string, err error) { f.errOn[method] = err }

func (f *fakeRegs) Create(_ context.Context, r *entity.RegistrationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["Create"]; err != nil {
		return err
	}
	f.seq++
	r.ID = "reg-" + strconv.Itoa(f.seq)
	cp := *r
	f.byUserID[r.UserID] = &cp
	return nil
}

func (f *fakeRegs) GetByUserID(_ context.Context, userID string) (*entity.RegistrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["GetByUserID"]; err != nil {
		return nil, err
	}
	r, ok := f.byUserID[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRegs) ListByStatus(_ context.Context, status entity.Status, _, _ int) ([]entity.RegistrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["ListByStatus"]; err != nil {
		return nil, err
	}
	var out []entity.RegistrationRequest
	for _, r := range f.byUserID {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegs) SetEmailVerified(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["SetEmailVerified"]; err != nil {
		return err
	}
	r, ok := f.byUserID[userID]
	if !ok {
		return repo.ErrNotFound
	}
	r.EmailVerified = true
	return nil
}

func (f *fakeRegs) UpdateDecision(_ context.Context, userID string, status entity.Status, notes, reviewedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["UpdateDecision"]; err != nil {
		return err
	}
	r, ok := f.byUserID[userID]
	if !ok {
		return repo.ErrNotFound
	}
	r.Status = status
	r.AdminNotes = notes
	r.ReviewedBy = &reviewedBy
	return nil
}

func (f *fakeRegs) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errOn["DeleteByUserID"]; err != nil {
		return err
	}
	delete(f.byUserID, userID)
	return nil
}

// capturePublisher records every job handed to the queue.
type capturePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

func (p *capturePublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.jobs))
	copy(out, p.jobs)
	return out
}

var (
	_ repo.UserRepository         = (*fakeUsers)(nil)
	_ repo.OTPRepository          = (*fakeOTPs)(nil)
	_ repo.RegistrationRepository = (*fakeRegs)(nil)
	_ EmailPublisher              = (*capturePublisher)(nil)
)
