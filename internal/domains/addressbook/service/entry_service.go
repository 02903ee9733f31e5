package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"addressbook-backend/internal/domains/addressbook"
)

// Config tunes the entry service.
type Config struct {
	BcryptCost     int    // 0 means bcrypt.DefaultCost
	PhotoURLPrefix string // public path photos are served under, e.g. /uploads
}

type entryService struct {
	repo        addressbook.Repository
	jobs        addressbook.ReferenceChecker
	departments addressbook.ReferenceChecker
	photos      addressbook.PhotoStore
	cfg         Config
	now         func() time.Time
}

func NewEntryService(
	repo addressbook.Repository,
	jobs addressbook.ReferenceChecker,
	departments addressbook.ReferenceChecker,
	photos addressbook.PhotoStore,
	cfg Config,
) addressbook.Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.PhotoURLPrefix = strings.TrimRight(cfg.PhotoURLPrefix, "/")

	return &entryService{
		repo:        repo,
		jobs:        jobs,
		departments: departments,
		photos:      photos,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *entryService) List(ctx context.Context) ([]addressbook.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURLs(entries), nil
}

func (s *entryService) GetByID(ctx context.Context, id int64) (*addressbook.Entry, error) {
	if id <= 0 {
		return nil, addressbook.ErrEntryNotFound
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setPhotoURL(e)
	return e, nil
}

func (s *entryService) Search(ctx context.Context, filter addressbook.SearchFilter) ([]addressbook.Entry, error) {
	entries, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURLs(entries), nil
}

// ════════════════════════════════════════════════════════════════
// CREATE
// ════════════════════════════════════════════════════════════════

func (s *entryService) Create(ctx context.Context, req addressbook.EntryRequest) (*addressbook.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, addressbook.ErrPasswordRequired
	}
	dob, err := req.ParsedDateOfBirth()
	if err != nil {
		return nil, err
	}

	// Check references before storing the photo: a rejected request must not leave a file behind.
	if err := s.checkReferences(ctx, req.JobID, req.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	photoPath, err := s.savePhoto(ctx, req.Photo)
	if err != nil {
		return nil, err
	}

	entry := &addressbook.Entry{
		FullName:     strings.TrimSpace(req.FullName),
		JobID:        req.JobID,
		DepartmentID: req.DepartmentID,
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		DateOfBirth:  dob,
		Address:      optionalString(req.Address),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		PhotoPath:    photoPath,
		Age:          addressbook.CalculateAge(dob, s.now()),
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.discardPhoto(ctx, photoPath)
		return nil, err
	}

	s.setPhotoURL(created)
	return created, nil
}

// ════════════════════════════════════════════════════════════════
// UPDATE
// ════════════════════════════════════════════════════════════════

func (s *entryService) Update(ctx context.Context, id int64, req addressbook.EntryRequest) (*addressbook.Entry, error) {
	if id <= 0 {
		return nil, addressbook.ErrEntryNotFound
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	dob, err := req.ParsedDateOfBirth()
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.JobID, req.DepartmentID); err != nil {
		return nil, err
	}

	hash := existing.PasswordHash
	if req.Password != "" {
		if hash, err = s.hashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	photoPath := existing.PhotoPath
	if req.Photo != nil {
		if photoPath, err = s.savePhoto(ctx, req.Photo); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, &addressbook.Entry{
		ID:           id,
		FullName:     strings.TrimSpace(req.FullName),
		JobID:        req.JobID,
		DepartmentID: req.DepartmentID,
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		DateOfBirth:  dob,
		Address:      optionalString(req.Address),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		PhotoPath:    photoPath,
		Age:          addressbook.CalculateAge(dob, s.now()),
	})
	if err != nil {
		if req.Photo != nil {
			s.discardPhoto(ctx, photoPath)
		}
		return nil, err
	}

	// The replaced photo goes only once the row points at the new one.
	if req.Photo != nil {
		s.discardPhoto(ctx, existing.PhotoPath)
	}

	s.setPhotoURL(updated)
	return updated, nil
}

// ════════════════════════════════════════════════════════════════
// DELETE
// ════════════════════════════════════════════════════════════════

func (s *entryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}

	photoPath, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, addressbook.ErrEntryNotFound) {
			return nil
		}
		return err
	}

	s.discardPhoto(ctx, photoPath)
	return nil
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (s *entryService) checkReferences(ctx context.Context, jobID, departmentID int64) error {
	if jobID <= 0 || departmentID <= 0 {
		return addressbook.ErrInvalidReference
	}

	ok, err := s.jobs.Exists(ctx, jobID)
	if err != nil {
		return fmt.Errorf("check job %d: %w", jobID, err)
	}
	if !ok {
		return addressbook.ErrInvalidReference
	}

	ok, err = s.departments.Exists(ctx, departmentID)
	if err != nil {
		return fmt.Errorf("check department %d: %w", departmentID, err)
	}
	if !ok {
		return addressbook.ErrInvalidReference
	}
	return nil
}

func (s *entryService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *entryService) savePhoto(ctx context.Context, photo *addressbook.PhotoUpload) (*string, error) {
	if photo == nil {
		return nil, nil
	}
	name, err := s.photos.Save(ctx, photo.Filename, photo.Content)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

// discardPhoto removes a stored photo. Failures only leave an orphaned file, so they are logged.
func (s *entryService) discardPhoto(ctx context.Context, photoPath *string) {
	if photoPath == nil || *photoPath == "" {
		return
	}
	if err := s.photos.Delete(ctx, *photoPath); err != nil {
		log.Warn().Err(err).Str("photo", *photoPath).Msg("[ADDRESSBOOK] Failed to delete photo")
	}
}

func (s *entryService) photoURL(e *addressbook.Entry) string {
	if !e.HasPhoto() {
		return ""
	}
	return s.cfg.PhotoURLPrefix + "/" + *e.PhotoPath
}

func (s *entryService) setPhotoURL(e *addressbook.Entry) {
	e.PhotoURL = s.photoURL(e)
}

func (s *entryService) withPhotoURLs(entries []addressbook.Entry) []addressbook.Entry {
	for i := range entries {
		s.setPhotoURL(&entries[i])
	}
	return entries
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
