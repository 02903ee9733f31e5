package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/domains/job"
)

// ============================================================
// FAKES
// ============================================================

type fakeRepo struct {
	rows      map[int64]addressbook.Entry
	nextID    int64
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]addressbook.Entry{}}
}

func (f *fakeRepo) withRelations(e addressbook.Entry) addressbook.Entry {
	e.Job = &job.Job{ID: e.JobID, Title: "Job " + string(rune('A'+e.JobID-1))}
	e.Department = &department.Department{ID: e.DepartmentID, Name: "Dept " + string(rune('A'+e.DepartmentID-1))}
	return e
}

func (f *fakeRepo) List(context.Context) ([]addressbook.Entry, error) {
	out := make([]addressbook.Entry, 0, len(f.rows))
	for _, e := range f.rows {
		out = append(out, f.withRelations(e))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*addressbook.Entry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, addressbook.ErrEntryNotFound
	}
	e = f.withRelations(e)
	return &e, nil
}

func (f *fakeRepo) Search(ctx context.Context, filter addressbook.SearchFilter) ([]addressbook.Entry, error) {
	all, _ := f.List(ctx)
	term := strings.ToLower(filter.Term)
	out := []addressbook.Entry{}
	for _, e := range all {
		if term != "" {
			addr := ""
			if e.Address != nil {
				addr = *e.Address
			}
			if !strings.Contains(strings.ToLower(e.FullName), term) &&
				!strings.Contains(strings.ToLower(e.Email), term) &&
				!strings.Contains(strings.ToLower(addr), term) &&
				!strings.Contains(e.MobileNumber, term) {
				continue
			}
		}
		if filter.StartDate != nil && e.DateOfBirth.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.DateOfBirth.After(*filter.EndDate) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, e *addressbook.Entry) (*addressbook.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	stored := *e
	stored.ID = f.nextID
	f.rows[stored.ID] = stored
	out := f.withRelations(stored)
	return &out, nil
}

func (f *fakeRepo) Update(_ context.Context, e *addressbook.Entry) (*addressbook.Entry, error) {
	if _, ok := f.rows[e.ID]; !ok {
		return nil, addressbook.ErrEntryNotFound
	}
	f.rows[e.ID] = *e
	out := f.withRelations(*e)
	return &out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (*string, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, addressbook.ErrEntryNotFound
	}
	delete(f.rows, id)
	return e.PhotoPath, nil
}

type idSet map[int64]bool

func (s idSet) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

type fakePhotos struct {
	files map[string][]byte
	seq   int
}

func (p *fakePhotos) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p.seq++
	name := strings.Repeat("x", p.seq) + "_" + originalName
	p.files[name] = data
	return name, nil
}

func (p *fakePhotos) Delete(_ context.Context, name string) error {
	delete(p.files, name)
	return nil
}

// ============================================================
// HELPERS
// ============================================================

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *entryService
	repo   *fakeRepo
	photos *fakePhotos
}

func newFixture() fixture {
	repo := newFakeRepo()
	photos := &fakePhotos{files: map[string][]byte{}}
	svc := NewEntryService(repo, idSet{1: true, 2: true}, idSet{1: true}, photos, Config{
		BcryptCost:     bcrypt.MinCost,
		PhotoURLPrefix: "/uploads/",
	}).(*entryService)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, repo: repo, photos: photos}
}

func validRequest() addressbook.EntryRequest {
	return addressbook.EntryRequest{
		FullName:     "Alice Smith",
		JobID:        1,
		DepartmentID: 1,
		MobileNumber: "0123456789",
		DateOfBirth:  "1990-06-20",
		Address:      "12 Baker Street",
		Email:        "alice@example.com",
		Password:     "s3cret!",
	}
}

func withPhoto(req addressbook.EntryRequest, name, content string) addressbook.EntryRequest {
	req.Photo = &addressbook.PhotoUpload{Filename: name, Content: strings.NewReader(content)}
	return req
}

// ============================================================
// TESTS
// ============================================================

func TestCreate_Success(t *testing.T) {
	fx := newFixture()

	created, err := fx.svc.Create(context.Background(), withPhoto(validRequest(), "me.png", "img"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Job A", created.Job.Title)
	assert.Equal(t, "Dept A", created.Department.Name)
	// birthday on June 20 has not happened by June 15
	assert.Equal(t, 33, created.Age)
	require.NotNil(t, created.PhotoPath)
	assert.Contains(t, fx.photos.files, *created.PhotoPath)
	assert.Equal(t, "/uploads/"+*created.PhotoPath, created.PhotoURL)

	assert.NotEqual(t, "s3cret!", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret!")))
}

func TestCreate_InvalidReferences(t *testing.T) {
	cases := map[string]func(*addressbook.EntryRequest){
		"unknown job":        func(r *addressbook.EntryRequest) { r.JobID = 99 },
		"unknown department": func(r *addressbook.EntryRequest) { r.DepartmentID = 99 },
		"missing job":        func(r *addressbook.EntryRequest) { r.JobID = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			fx := newFixture()
			req := withPhoto(validRequest(), "me.png", "img")
			mutate(&req)

			_, err := fx.svc.Create(context.Background(), req)

			assert.ErrorIs(t, err, addressbook.ErrInvalidReference)
			assert.Empty(t, fx.repo.rows, "no row persisted")
			assert.Empty(t, fx.photos.files, "no photo left behind")
		})
	}
}

func TestCreate_PasswordRequired(t *testing.T) {
	fx := newFixture()
	req := validRequest()
	req.Password = ""

	_, err := fx.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, addressbook.ErrPasswordRequired)
	assert.Empty(t, fx.repo.rows)
}

func TestCreate_ValidationError(t *testing.T) {
	fx := newFixture()
	req := validRequest()
	req.Email = "not-an-email"
	req.DateOfBirth = "3000-01-01"

	_, err := fx.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "dateOfBirth")
	assert.Empty(t, fx.repo.rows)
}

func TestCreate_PasswordTooLong(t *testing.T) {
	fx := newFixture()
	req := withPhoto(validRequest(), "me.png", "img")
	req.Password = strings.Repeat("p", 80)

	_, err := fx.svc.Create(context.Background(), req)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "password")
	assert.Empty(t, fx.repo.rows)
	assert.Empty(t, fx.photos.files)
}

func TestCreate_RepositoryFailureDiscardsPhoto(t *testing.T) {
	fx := newFixture()
	fx.repo.createErr = errors.New("db down")

	_, err := fx.svc.Create(context.Background(), withPhoto(validRequest(), "me.png", "img"))
	assert.Error(t, err)
	assert.Empty(t, fx.photos.files)
}

func TestUpdate_PasswordOptional(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validRequest())
	require.NoError(t, err)
	originalHash := created.PasswordHash

	req := validRequest()
	req.Password = ""
	req.FullName = "Alice Jones"
	updated, err := fx.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Alice Jones", updated.FullName)
	assert.Equal(t, originalHash, updated.PasswordHash)

	req.Password = "n3w-pass"
	updated, err = fx.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("n3w-pass")))
}

func TestUpdate_PhotoReplacement(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, withPhoto(validRequest(), "old.png", "old"))
	require.NoError(t, err)
	oldPhoto := *created.PhotoPath

	// no photo in the request keeps the current one
	updated, err := fx.svc.Update(ctx, created.ID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, oldPhoto, *updated.PhotoPath)
	assert.Contains(t, fx.photos.files, oldPhoto)

	updated, err = fx.svc.Update(ctx, created.ID, withPhoto(validRequest(), "new.png", "new"))
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoPath)
	assert.NotEqual(t, oldPhoto, *updated.PhotoPath)
	assert.NotContains(t, fx.photos.files, oldPhoto)
	assert.Equal(t, []byte("new"), fx.photos.files[*updated.PhotoPath])
}

func TestUpdate_Errors(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.Update(ctx, 42, validRequest())
	assert.ErrorIs(t, err, addressbook.ErrEntryNotFound)

	created, err := fx.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := withPhoto(validRequest(), "x.png", "x")
	req.JobID = 99
	_, err = fx.svc.Update(ctx, created.ID, req)
	assert.ErrorIs(t, err, addressbook.ErrInvalidReference)
	assert.Empty(t, fx.photos.files)
}

func TestUpdate_RecomputesAge(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.DateOfBirth = "1990-06-01"
	updated, err := fx.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 34, updated.Age)
}

func TestDelete(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	withPic, err := fx.svc.Create(ctx, withPhoto(validRequest(), "me.png", "img"))
	require.NoError(t, err)
	withoutPic, err := fx.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, withPic.ID))
	assert.Empty(t, fx.photos.files)

	require.NoError(t, fx.svc.Delete(ctx, withoutPic.ID))
	assert.Empty(t, fx.repo.rows)

	assert.NoError(t, fx.svc.Delete(ctx, 12345), "unknown id is a no-op")
}

func TestSearch(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	alice := validRequest()
	bob := validRequest()
	bob.FullName, bob.Email, bob.DateOfBirth, bob.MobileNumber = "Bob Brown", "bob@example.com", "1985-01-01", "0999888777"
	_, err := fx.svc.Create(ctx, alice)
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, bob)
	require.NoError(t, err)

	all, err := fx.svc.Search(ctx, addressbook.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := fx.svc.Search(ctx, addressbook.SearchFilter{Term: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, none)

	filter, err := addressbook.NewSearchFilter("", "1985-01-01", "1989-12-31")
	require.NoError(t, err)
	inRange, err := fx.svc.Search(ctx, filter)
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "Bob Brown", inRange[0].FullName)

	filter, err = addressbook.NewSearchFilter("ALICE", "", "1990-06-20")
	require.NoError(t, err)
	byTerm, err := fx.svc.Search(ctx, filter)
	require.NoError(t, err)
	require.Len(t, byTerm, 1, "end date is inclusive")
	assert.Equal(t, "Alice Smith", byTerm[0].FullName)
}

func TestExport(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, withPhoto(validRequest(), "me.png", "img"))
	require.NoError(t, err)
	second := validRequest()
	second.FullName = "Bob Brown"
	second.Address = ""
	_, err = fx.svc.Create(ctx, second)
	require.NoError(t, err)

	data, err := fx.svc.Export(ctx, "http://localhost:5270/")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])

	assert.Equal(t, "Alice Smith", rows[1][0])
	assert.Equal(t, "Job A", rows[1][1])
	assert.Equal(t, "Dept A", rows[1][2])
	assert.Equal(t, "1990-06-20", rows[1][4])
	assert.Equal(t, "33", rows[1][5])
	assert.True(t, strings.HasPrefix(rows[1][8], "http://localhost:5270/uploads/"))

	assert.Equal(t, "Bob Brown", rows[2][0])
}

func TestFillWorkbook_MissingSheet(t *testing.T) {
	fx := newFixture()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Other"))

	err := fx.svc.fillWorkbook(f, nil, "http://localhost")
	assert.Error(t, err)
	assert.NoError(t, f.Close())
}
