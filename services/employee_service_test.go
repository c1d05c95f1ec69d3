package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/testutil"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewEmployeeService(db, repository.NewUserRepository(db), repository.NewOnboardingRepository(db),
		fixedClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))), db
}

func asActor(u *entity.User) Actor { return Actor{ID: u.ID, Role: u.Role} }

func ptr[T any](v T) *T { return &v }

func TestCreateEmployeeStartsOnboarding(t *testing.T) {
	svc, db := newEmployeeService(t)
	manager := asActor(testutil.CreateUser(t, db, entity.RoleManager))

	u, err := svc.Create(manager, CreateEmployeeInput{
		Email: " Vlad@LaserZone.ro ", Password: "parola1234", FirstName: "Vlad", Position: "Arbitru",
	})
	require.NoError(t, err)
	assert.Equal(t, "vlad@laserzone.ro", u.Email)
	assert.Equal(t, entity.RoleEmployee, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "parola1234", u.Password)

	p, err := repository.NewOnboardingRepository(db).FindProgress(u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepDocuments, p.CurrentStep)
	require.Len(t, p.AuditLog, 1)
	assert.Equal(t, manager.ID, p.AuditLog[0].ActorID)

	_, err = svc.Create(manager, CreateEmployeeInput{Email: "vlad@laserzone.ro", Password: "parola1234", FirstName: "Alt"})
	requireKind(t, err, ErrInvalid, "email")
}

func TestCreateEmployeeRules(t *testing.T) {
	svc, db := newEmployeeService(t)
	manager := asActor(testutil.CreateUser(t, db, entity.RoleManager))
	admin := asActor(testutil.CreateUser(t, db, entity.RoleAdmin))

	_, err := svc.Create(manager, CreateEmployeeInput{Email: "a@x.ro", Password: "parola1234", FirstName: "A", Role: entity.RoleAdmin})
	requireKind(t, err, ErrForbidden)
	_, err = svc.Create(manager, CreateEmployeeInput{Email: "b@x.ro", Password: "scurt", FirstName: "B"})
	requireKind(t, err, ErrInvalid, "8 caractere")
	_, err = svc.Create(manager, CreateEmployeeInput{Email: "c@x.ro", Password: "parola1234", FirstName: "C", Role: "owner"})
	requireKind(t, err, ErrInvalid, "owner")
	_, err = svc.Create(manager, CreateEmployeeInput{Email: "d@x.ro", Password: "parola1234", FirstName: " "})
	requireKind(t, err, ErrInvalid)

	u, err := svc.Create(admin, CreateEmployeeInput{Email: "e@x.ro", Password: "parola1234", FirstName: "E", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestUpdateEmployee(t *testing.T) {
	svc, db := newEmployeeService(t)
	manager := asActor(testutil.CreateUser(t, db, entity.RoleManager))
	admin := asActor(testutil.CreateUser(t, db, entity.RoleAdmin))
	emp := testutil.CreateUser(t, db, entity.RoleEmployee)
	other := testutil.CreateUser(t, db, entity.RoleEmployee)

	u, err := svc.Update(manager, emp.ID, UpdateEmployeeInput{Position: ptr("Casier"), LastName: ptr(" Ionescu ")})
	require.NoError(t, err)
	assert.Equal(t, "Casier", u.Position)
	assert.Equal(t, "Ionescu", u.LastName)

	_, err = svc.Update(manager, emp.ID, UpdateEmployeeInput{Role: ptr(entity.RoleManager)})
	requireKind(t, err, ErrForbidden)

	_, err = svc.Update(manager, admin.ID, UpdateEmployeeInput{Position: ptr("x")})
	requireKind(t, err, ErrForbidden)

	_, err = svc.Update(manager, emp.ID, UpdateEmployeeInput{Email: ptr(other.Email)})
	requireKind(t, err, ErrInvalid, "email")

	promoted, err := svc.Update(admin, emp.ID, UpdateEmployeeInput{Role: ptr(entity.RoleManager)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, promoted.Role)

	_, err = svc.Update(admin, admin.ID, UpdateEmployeeInput{Role: ptr(entity.RoleEmployee)})
	requireKind(t, err, ErrInvalid, "propriul rol")
	_, err = svc.Update(manager, manager.ID, UpdateEmployeeInput{IsActive: ptr(false)})
	requireKind(t, err, ErrInvalid, "propriul cont")

	_, err = svc.Update(manager, 9999, UpdateEmployeeInput{})
	requireKind(t, err, ErrNotFound)
}

func TestDeactivateEmployee(t *testing.T) {
	svc, db := newEmployeeService(t)
	manager := asActor(testutil.CreateUser(t, db, entity.RoleManager))
	emp := testutil.CreateUser(t, db, entity.RoleEmployee)

	requireKind(t, svc.Deactivate(manager, manager.ID), ErrInvalid)
	require.NoError(t, svc.Deactivate(manager, emp.ID))

	got, err := svc.Get(emp.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active := true
	list, err := svc.List(repository.UserFilter{Active: &active, Role: entity.RoleEmployee})
	require.NoError(t, err)
	assert.Empty(t, list)

	requireKind(t, svc.Deactivate(manager, 9999), ErrNotFound)
}
