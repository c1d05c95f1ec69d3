package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/testutil"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

type checklistFixture struct {
	db       *gorm.DB
	svc      *ChecklistService
	notifier *notifierMock
	manager  Actor
	staff    Actor
}

func newChecklistFixture(t *testing.T) *checklistFixture {
	db := testutil.NewDB(t)
	n := newNotifierMock()
	svc := NewChecklistService(db,
		repository.NewChecklistRepository(db),
		repository.NewAuditLogRepository(db),
		repository.NewUserRepository(db),
		n, fixedClock(time.Date(2026, 6, 20, 8, 0, 0, 0, time.UTC)))
	m := testutil.CreateUser(t, db, entity.RoleManager)
	e := testutil.CreateUser(t, db, entity.RoleEmployee)
	return &checklistFixture{
		db: db, svc: svc, notifier: n,
		manager: Actor{ID: m.ID, Role: m.Role},
		staff:   Actor{ID: e.ID, Role: e.Role},
	}
}

func openingInput() TemplateInput {
	return TemplateInput{
		Name:  " Deschidere arenă ",
		Shift: entity.ShiftOpening,
		Items: []ChecklistItemInput{
			{Title: "Pornește generatoarele de ceață", IsRequired: true},
			{Title: "Încarcă vestele", IsRequired: true},
			{Title: "Verifică muzica"},
		},
	}
}

func (f *checklistFixture) template(t *testing.T) *entity.ChecklistTemplate {
	t.Helper()
	tpl, err := f.svc.CreateTemplate(f.manager, openingInput())
	require.NoError(t, err)
	return tpl
}

func TestCreateTemplate(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)

	assert.Equal(t, "Deschidere arenă", tpl.Name)
	assert.True(t, tpl.IsActive)
	require.Len(t, tpl.Items, 3)
	assert.Equal(t, 1, tpl.Items[0].Position)
	assert.Equal(t, 3, tpl.Items[2].Position)

	logs, err := f.svc.ListAudit(entity.AuditEntityTemplate, tpl.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, AuditTemplateCreated, logs[0].Action)
	assert.Equal(t, f.manager.ID, logs[0].UserID)
	assert.EqualValues(t, 3, logs[0].Details["items"])
}

func TestCreateTemplateValidation(t *testing.T) {
	f := newChecklistFixture(t)

	tests := []struct {
		name string
		edit func(*TemplateInput)
		msg  string
	}{
		{"no name", func(in *TemplateInput) { in.Name = "  " }, "Numele"},
		{"bad shift", func(in *TemplateInput) { in.Shift = "night" }, "night"},
		{"no items", func(in *TemplateInput) { in.Items = nil }, "cel puțin un element"},
		{"blank item", func(in *TemplateInput) { in.Items[1].Title = "" }, "Elementul 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := openingInput()
			tt.edit(&in)
			_, err := f.svc.CreateTemplate(f.manager, in)
			requireKind(t, err, ErrInvalid, tt.msg)
		})
	}
}

func TestInactiveTemplateCannotStartInstance(t *testing.T) {
	f := newChecklistFixture(t)
	in := openingInput()
	off := false
	in.IsActive = &off

	tpl, err := f.svc.CreateTemplate(f.manager, in)
	require.NoError(t, err)
	assert.False(t, tpl.IsActive)

	_, err = f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	requireKind(t, err, ErrInvalid, "inactivă")

	active := true
	list, err := f.svc.ListTemplates("", &active)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateTemplateReplacesItems(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)

	in := openingInput()
	in.Name = "Deschidere"
	in.Items = []ChecklistItemInput{{Title: "Un singur pas", IsRequired: true}}
	updated, err := f.svc.UpdateTemplate(f.manager, tpl.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Deschidere", updated.Name)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Un singur pas", updated.Items[0].Title)

	_, err = f.svc.UpdateTemplate(f.manager, 9999, in)
	requireKind(t, err, ErrNotFound)

	logs, err := f.svc.ListAudit(entity.AuditEntityTemplate, tpl.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, AuditTemplateUpdated, logs[0].Action, "newest first")
}

func TestTemplateEditKeepsInstanceItems(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)

	done, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	require.NoError(t, err)
	for _, it := range done.Items {
		_, err = f.svc.CompleteItem(f.staff, done.ID, it.ID, "")
		require.NoError(t, err)
	}
	_, err = f.svc.CompleteInstance(f.staff, done.ID)
	require.NoError(t, err)

	open, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-21", nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateTemplate(f.manager, tpl.ID, openingInput())
	require.NoError(t, err)

	got, err := f.svc.GetInstance(done.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InstanceCompleted, got.Status)
	assert.Equal(t, InstanceProgress{Total: 3, Completed: 3, Required: 2, RequiredCompleted: 2}, got.Progress)

	got, err = f.svc.GetInstance(open.ID)
	require.NoError(t, err)
	assert.Equal(t, InstanceProgress{Total: 3, Required: 2}, got.Progress)
	assert.Equal(t, open.Items[0].ID, got.Items[0].ID)

	fresh, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-22", nil)
	require.NoError(t, err)
	require.Len(t, fresh.Items, 3)
	assert.NotEqual(t, open.Items[0].ID, fresh.Items[0].ID)
	_, err = f.svc.CompleteItem(f.staff, open.ID, fresh.Items[0].ID, "")
	requireKind(t, err, ErrNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)

	require.NoError(t, f.svc.DeleteTemplate(f.manager, tpl.ID))
	_, err := f.svc.GetTemplate(tpl.ID)
	requireKind(t, err, ErrNotFound)
	requireKind(t, f.svc.DeleteTemplate(f.manager, tpl.ID), ErrNotFound)

	logs, err := f.svc.ListAudit(entity.AuditEntityTemplate, tpl.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, AuditTemplateDeleted, logs[0].Action)
}

func TestCreateInstance(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)

	d, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", &f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InstanceInProgress, d.Status)
	assert.Equal(t, entity.ShiftOpening, d.Shift)
	assert.Equal(t, "Deschidere arenă", d.TemplateName)
	assert.Equal(t, InstanceProgress{Total: 3, Required: 2}, d.Progress)

	_, err = f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	requireKind(t, err, ErrInvalid, "Există deja")

	_, err = f.svc.CreateInstance(f.manager, tpl.ID, "20.06.2026", nil)
	requireKind(t, err, ErrInvalid, "AAAA-LL-ZZ")

	inactive := testutil.CreateInactiveUser(t, f.db, entity.RoleEmployee)
	_, err = f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-21", &inactive.ID)
	requireKind(t, err, ErrInvalid, "inactiv")

	list, err := f.svc.ListInstances("2026-06-20", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompleteAndUncompleteItem(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)
	d, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	require.NoError(t, err)
	first := tpl.Items[0].ID

	d, err = f.svc.CompleteItem(f.staff, d.ID, first, " ok ")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Progress.Completed)
	assert.Equal(t, 1, d.Progress.RequiredCompleted)
	assert.True(t, d.Items[0].Completed)
	assert.Equal(t, "ok", d.Items[0].Notes)
	require.NotNil(t, d.Items[0].CompletedByID)
	assert.Equal(t, f.staff.ID, *d.Items[0].CompletedByID)
	f.notifier.AssertCalled(t, "Publish", EventChecklistItemCompleted, mock.Anything)

	_, err = f.svc.CompleteItem(f.staff, d.ID, first, "")
	requireKind(t, err, ErrInvalid, "deja bifat")

	_, err = f.svc.CompleteItem(f.staff, d.ID, 9999, "")
	requireKind(t, err, ErrNotFound)

	d, err = f.svc.UncompleteItem(f.staff, d.ID, first)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Progress.Completed)

	_, err = f.svc.UncompleteItem(f.staff, d.ID, first)
	requireKind(t, err, ErrInvalid, "nu este bifat")

	logs, err := f.svc.ListAudit(entity.AuditEntityInstance, d.ID, 0)
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{AuditItemUncompleted, AuditItemCompleted, AuditInstanceCreated}, actions)
}

func TestCompleteInstance(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)
	d, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	require.NoError(t, err)

	_, err = f.svc.CompleteItem(f.staff, d.ID, tpl.Items[0].ID, "")
	require.NoError(t, err)

	_, err = f.svc.CompleteInstance(f.staff, d.ID)
	requireKind(t, err, ErrInvalid, "Încarcă vestele")

	_, err = f.svc.CompleteItem(f.staff, d.ID, tpl.Items[1].ID, "")
	require.NoError(t, err)

	done, err := f.svc.CompleteInstance(f.staff, d.ID)
	require.NoError(t, err, "optional items may stay unchecked")
	assert.Equal(t, entity.InstanceCompleted, done.Status)
	require.NotNil(t, done.CompletedByID)
	assert.Equal(t, f.staff.ID, *done.CompletedByID)
	f.notifier.AssertCalled(t, "Publish", EventChecklistCompleted, mock.Anything)

	_, err = f.svc.CompleteItem(f.staff, d.ID, tpl.Items[2].ID, "")
	requireKind(t, err, ErrInvalid, "finalizată")
	_, err = f.svc.UncompleteItem(f.staff, d.ID, tpl.Items[0].ID)
	requireKind(t, err, ErrInvalid, "finalizată")
	_, err = f.svc.CompleteInstance(f.staff, d.ID)
	requireKind(t, err, ErrInvalid)
}

func TestInstanceSurvivesTemplateDeletion(t *testing.T) {
	f := newChecklistFixture(t)
	tpl := f.template(t)
	d, err := f.svc.CreateInstance(f.manager, tpl.ID, "2026-06-20", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTemplate(f.manager, tpl.ID))

	got, err := f.svc.GetInstance(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deschidere arenă", got.TemplateName)
	assert.Len(t, got.Items, 3)
}
