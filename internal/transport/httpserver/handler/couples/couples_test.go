package couples

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	"parish-app-go/internal/metrics"
	"parish-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	coupleID  = "0b6c3c2e-8f57-4c36-9d0e-4a8a7f2f1a01"
	spouseAID = "0b6c3c2e-8f57-4c36-9d0e-4a8a7f2f1a02"
	spouseBID = "0b6c3c2e-8f57-4c36-9d0e-4a8a7f2f1a03"
	programID = "0b6c3c2e-8f57-4c36-9d0e-4a8a7f2f1a04"
)

type fakeRepo struct {
	couples  map[string]couplesdomain.Couple
	programs map[string]couplesdomain.MarriageProgram
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		couples:  make(map[string]couplesdomain.Couple),
		programs: make(map[string]couplesdomain.MarriageProgram),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(couplesdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) ListCouples(ctx context.Context, filter couplesdomain.CoupleFilter) ([]couplesdomain.CoupleWithSpouses, int64, error) {
	var result []couplesdomain.CoupleWithSpouses
	for _, couple := range r.couples {
		result = append(result, couplesdomain.CoupleWithSpouses{Couple: couple})
	}
	return result, int64(len(result)), nil
}

func (r *fakeRepo) CoupleStats(ctx context.Context, monthStart time.Time) (couplesdomain.CoupleStats, error) {
	return couplesdomain.CoupleStats{Married: int64(len(r.couples))}, nil
}

func (r *fakeRepo) GetCouple(ctx context.Context, id string) (*couplesdomain.CoupleWithSpouses, error) {
	couple, ok := r.couples[id]
	if !ok {
		return nil, couplesdomain.ErrCoupleNotFound
	}
	return &couplesdomain.CoupleWithSpouses{
		Couple:  couple,
		SpouseA: couplesdomain.Spouse{ID: couple.SpouseAID, FirstName: "Jean", LastName: "Ndayishimiye"},
		SpouseB: couplesdomain.Spouse{ID: couple.SpouseBID, FirstName: "Aline", LastName: "Iradukunda"},
	}, nil
}

func (r *fakeRepo) LockCouple(ctx context.Context, id string) (*couplesdomain.Couple, error) {
	couple, ok := r.couples[id]
	if !ok {
		return nil, couplesdomain.ErrCoupleNotFound
	}
	return &couple, nil
}

func (r *fakeRepo) ListCouplesByMember(ctx context.Context, memberID string) ([]couplesdomain.Couple, error) {
	return nil, nil
}

func (r *fakeRepo) MembersExist(ctx context.Context, ids ...string) (bool, error) {
	return true, nil
}

func (r *fakeRepo) CreateCouple(ctx context.Context, couple *couplesdomain.Couple) error {
	r.couples[couple.ID] = *couple
	return nil
}

func (r *fakeRepo) UpdateCouple(ctx context.Context, couple *couplesdomain.Couple) error {
	r.couples[couple.ID] = *couple
	return nil
}

func (r *fakeRepo) DeleteCouple(ctx context.Context, id string) error {
	delete(r.couples, id)
	for programID, program := range r.programs {
		if program.CoupleID == id {
			delete(r.programs, programID)
		}
	}
	return nil
}

func (r *fakeRepo) ListPrograms(ctx context.Context, filter couplesdomain.ProgramFilter) ([]couplesdomain.MarriageProgram, int64, error) {
	var result []couplesdomain.MarriageProgram
	for _, program := range r.programs {
		result = append(result, program)
	}
	return result, int64(len(result)), nil
}

func (r *fakeRepo) ListProgramsByCouple(ctx context.Context, coupleID string) ([]couplesdomain.MarriageProgram, error) {
	var result []couplesdomain.MarriageProgram
	for _, program := range r.programs {
		if program.CoupleID == coupleID {
			result = append(result, program)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetProgram(ctx context.Context, id string) (*couplesdomain.MarriageProgram, error) {
	program, ok := r.programs[id]
	if !ok {
		return nil, couplesdomain.ErrMarriageProgramNotFound
	}
	return &program, nil
}

func (r *fakeRepo) CreateProgram(ctx context.Context, program *couplesdomain.MarriageProgram) error {
	r.programs[program.ID] = *program
	return nil
}

func (r *fakeRepo) UpdateProgram(ctx context.Context, program *couplesdomain.MarriageProgram) error {
	r.programs[program.ID] = *program
	return nil
}

func (r *fakeRepo) DeleteProgram(ctx context.Context, id string) (bool, error) {
	_, ok := r.programs[id]
	delete(r.programs, id)
	return ok, nil
}

func newRouter(repo *fakeRepo) http.Handler {
	h := New(couplesdomain.NewService(repo, time.UTC), logger.Nop())
	r := chi.NewRouter()
	r.Get("/couples", h.ListCouples)
	r.Post("/couples", h.CreateCouple)
	r.Get("/couples/{id}", h.GetCouple)
	r.Delete("/couples/{id}", h.DeleteCouple)
	r.Post("/couples/{id}/marriage-programs", h.CreateProgram)
	r.Delete("/marriage-programs/{id}", h.DeleteProgram)
	return r
}

func seed(repo *fakeRepo, status couplesdomain.ProgramStatus) {
	repo.couples[coupleID] = couplesdomain.Couple{
		ID:        coupleID,
		SpouseAID: spouseAID,
		SpouseBID: spouseBID,
		IsActive:  true,
		Status:    couplesdomain.CoupleMarried,
	}
	repo.programs[programID] = couplesdomain.MarriageProgram{
		ID:       programID,
		CoupleID: coupleID,
		Title:    "Counselling",
		StartsAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
		Status:   status,
	}
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestDeleteCoupleBlockedByActiveProgram(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, couplesdomain.ProgramInProgress)
	router := newRouter(repo)
	before := testutil.ToFloat64(metrics.CoupleDeleteBlocked)

	rec := serve(router, http.MethodDelete, "/couples/"+coupleID, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"active_programs_exist"`)
	assert.Contains(t, repo.couples, coupleID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CoupleDeleteBlocked))
}

func TestDeleteCoupleAfterProgramsFinish(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, couplesdomain.ProgramCompleted)
	router := newRouter(repo)

	rec := serve(router, http.MethodDelete, "/couples/"+coupleID, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.couples)
	assert.Empty(t, repo.programs)
}

func TestDeleteCoupleNotFoundAndBadID(t *testing.T) {
	router := newRouter(newFakeRepo())

	rec := serve(router, http.MethodDelete, "/couples/"+coupleID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodDelete, "/couples/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCoupleRejectsSameSpouse(t *testing.T) {
	router := newRouter(newFakeRepo())

	rec := serve(router, http.MethodPost, "/couples", `{"spouse_a_id":"`+spouseAID+`","spouse_b_id":"`+spouseAID+`","status":"married"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_request"`)
}

func TestGetCoupleIncludesPrograms(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, couplesdomain.ProgramPlanned)
	router := newRouter(repo)

	rec := serve(router, http.MethodGet, "/couples/"+coupleID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"full_name":"Jean Ndayishimiye"`)
	assert.Contains(t, body, `"marriage_programs":[{"id":"`+programID+`"`)
}

func TestCreateProgramDefaultsToPlanned(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, couplesdomain.ProgramCompleted)
	router := newRouter(repo)

	rec := serve(router, http.MethodPost, "/couples/"+coupleID+"/marriage-programs",
		`{"title":"Wedding rehearsal","starts_at":"2024-06-01T09:00:00Z","ends_at":"2024-06-01T10:00:00Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"planned"`)
	assert.Len(t, repo.programs, 2)
}

func TestDeleteProgramReturnsCouple(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, couplesdomain.ProgramPlanned)
	router := newRouter(repo)

	rec := serve(router, http.MethodDelete, "/marriage-programs/"+programID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"couple_id":"`+coupleID+`"}`, rec.Body.String())
}
