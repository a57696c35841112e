package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/reconcile"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// StaffService owns the local staff collection and keeps the session in step
// with the operator's own record
type StaffService struct {
	staff     *reconcile.Reconciler[entity.Staff]
	staffRepo repository.StaffRepository
	sessions  *session.Manager
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repository.StaffRepository, sessions *session.Manager, tasks *background.Tasks) *StaffService {
	return &StaffService{
		staff:     reconcile.New[entity.Staff]("staff", staffRepo, tasks),
		staffRepo: staffRepo,
		sessions:  sessions,
	}
}

func (s *StaffService) Load(ctx context.Context) error {
	return s.staff.Load(ctx, s.staffRepo)
}

func (s *StaffService) List() []entity.Staff {
	return s.staff.Local().All()
}

func (s *StaffService) Find(id string) (entity.Staff, bool) {
	return s.staff.Local().Find(id)
}

// FindByUsername checks the local collection, then the remote store
func (s *StaffService) FindByUsername(ctx context.Context, username string) (*entity.Staff, error) {
	username = strings.TrimSpace(username)
	if st, ok := s.staff.Local().FindFunc(func(st entity.Staff) bool {
		return strings.EqualFold(st.Username, username)
	}); ok {
		return &st, nil
	}
	return s.staffRepo.GetByUsername(ctx, username)
}

// StaffInput is one staff member as edited by an admin. An empty Password
// keeps the stored one.
type StaffInput struct {
	ID         string
	Name       string
	Username   string
	Role       enum.StaffRole
	Commission decimal.Decimal
	Email      string
	Password   string
}

// Save replaces the staff list
func (s *StaffService) Save(inputs []StaffInput) ([]entity.Staff, error) {
	next := make([]entity.Staff, 0, len(inputs))
	var errs []apperror.FieldError
	usernames := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		st := entity.Staff{
			ID:         in.ID,
			Name:       strings.TrimSpace(in.Name),
			Username:   strings.TrimSpace(in.Username),
			Role:       in.Role,
			Commission: in.Commission,
			Email:      strings.TrimSpace(in.Email),
		}
		if st.ID == "" {
			st.ID = utils.NewID()
		}
		if st.Role == "" {
			st.Role = enum.StaffRoleEmployee
		}

		if prev, ok := s.staff.Local().Find(st.ID); ok {
			st.PasswordHash = prev.PasswordHash
			st.CreatedAt = prev.CreatedAt
		}
		if in.Password != "" {
			if len(in.Password) < 4 {
				errs = append(errs, fieldError(i, "password", "Password must be at least 4 characters"))
			} else if err := st.SetPassword(in.Password); err != nil {
				return nil, err
			}
		}

		if st.Name == "" {
			errs = append(errs, fieldError(i, "name", "Name is required"))
		}
		if st.Username == "" {
			errs = append(errs, fieldError(i, "username", "Username is required"))
		} else {
			key := strings.ToLower(st.Username)
			if _, dup := usernames[key]; dup {
				errs = append(errs, fieldError(i, "username", "Username is already taken"))
			}
			usernames[key] = struct{}{}
		}
		if !st.Role.IsValid() {
			errs = append(errs, fieldError(i, "role", "Role must be admin or employee"))
		}
		if st.Commission.IsNegative() || st.Commission.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, fieldError(i, "commission", "Commission must be between 0 and 100"))
		}
		if st.PasswordHash == "" && in.Password == "" {
			errs = append(errs, fieldError(i, "password", "Password is required for new staff"))
		}
		next = append(next, st)
	}
	if err := duplicateIDs(next, func(st entity.Staff) string { return st.ID }); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	return s.reconcile(next)
}

func (s *StaffService) reconcile(next []entity.Staff) ([]entity.Staff, error) {
	s.staff.Reconcile(next)

	if s.sessions != nil {
		refreshed, err := s.sessions.Refresh(next)
		if err != nil {
			slog.Warn("failed to refresh session after staff update", "error", err)
		} else if refreshed {
			slog.Info("session identity refreshed")
		}
	}
	return s.staff.Local().All(), nil
}

// ProfileInput is what an operator may change about themselves
type ProfileInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// UpdateProfile rewrites the operator's own record. Every other staff record
// is passed through unchanged.
func (s *StaffService) UpdateProfile(op entity.Staff, input ProfileInput) (*entity.Staff, error) {
	current := s.staff.Local().All()
	inputs := make([]StaffInput, 0, len(current))
	found := false
	for _, st := range current {
		in := StaffInput{
			ID:         st.ID,
			Name:       st.Name,
			Username:   st.Username,
			Role:       st.Role,
			Commission: st.Commission,
			Email:      st.Email,
		}
		if st.ID == op.ID {
			found = true
			in.Name = input.Name
			in.Username = input.Username
			in.Email = input.Email
			in.Password = input.Password
		}
		inputs = append(inputs, in)
	}
	if !found {
		return nil, apperror.NewNotFoundError("Staff member")
	}

	if _, err := s.Save(inputs); err != nil {
		return nil, err
	}
	st, _ := s.staff.Local().Find(op.ID)
	return &st, nil
}
