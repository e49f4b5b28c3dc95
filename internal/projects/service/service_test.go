package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/repository"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

type recordingLedger struct {
	records []audit.Record
}

func (r *recordingLedger) RecordPartialWrite(_ context.Context, rec audit.Record) {
	r.records = append(r.records, rec)
}

type fixture struct {
	store    *docstore.MemoryStore
	svc      *ProjectService
	users    *usersrepo.Repository
	recorder *recordingLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	users := usersrepo.NewRepository(store)
	recorder := &recordingLedger{}
	svc := NewProjectService(repository.NewRepository(store), users, recorder, nil, zerolog.Nop())
	return &fixture{store: store, svc: svc, users: users, recorder: recorder}
}

func (f *fixture) addUser(t *testing.T, uid string) userdomain.UserView {
	t.Helper()
	err := f.users.CreateProfile(context.Background(), uid, userdomain.Profile{Name: uid}, uid+"@example.edu")
	require.NoError(t, err)
	return userdomain.UserView{
		ID:            uid,
		Email:         uid + "@example.edu",
		EmailVerified: true,
		Name:          uid,
		Role:          userdomain.RoleUser,
	}
}

func (f *fixture) view(t *testing.T, uid string) userdomain.UserView {
	t.Helper()
	doc, err := f.users.GetProfile(context.Background(), uid)
	require.NoError(t, err)
	return userdomain.ViewFromDocument(uid, uid+"@example.edu", true, doc)
}

func TestCreatePutsCreatorOnTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")

	p, err := f.svc.Create(ctx, creator, CreateInput{Title: "Campus Compost", Domain: "sustainability"})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "creator", p.CreatorID)
	assert.Equal(t, []string{"creator"}, p.Team)
	assert.Equal(t, domain.StatusActive, p.Status)
	assert.Equal(t, domain.StageIdea, p.Stage)

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasMember("creator"))
}

func TestJoinThenLeaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")
	_ = f.addUser(t, "member")

	p, err := f.svc.Create(ctx, creator, CreateInput{Title: "Campus Compost"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Join(ctx, f.view(t, "member"), p.ID))

	joined, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, joined.HasMember("member"))
	assert.Equal(t, p.ID, f.view(t, "member").CurrentProject)

	require.NoError(t, f.svc.Leave(ctx, f.view(t, "member"), p.ID))

	left, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, left.HasMember("member"))
	// The creator never leaves their own team.
	assert.True(t, left.HasMember("creator"))
	assert.Empty(t, f.view(t, "member").CurrentProject)
}

func TestJoinDeniedWhileOnAnotherProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")
	other := f.addUser(t, "other")
	_ = f.addUser(t, "member")

	first, err := f.svc.Create(ctx, creator, CreateInput{Title: "First"})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, other, CreateInput{Title: "Second"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Join(ctx, f.view(t, "member"), first.ID))

	err = f.svc.Join(ctx, f.view(t, "member"), second.ID)
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "already in a project", denied.Reason)

	// The second team is untouched.
	s, err := f.svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, s.HasMember("member"))
}

func TestJoinIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")
	_ = f.addUser(t, "member")

	p, err := f.svc.Create(ctx, creator, CreateInput{Title: "First"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Join(ctx, f.view(t, "member"), p.ID))

	err = f.svc.Join(ctx, f.view(t, "member"), p.ID)
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
}

func TestJoinPartialWriteRecorded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")
	_ = f.addUser(t, "member")

	p, err := f.svc.Create(ctx, creator, CreateInput{Title: "First"})
	require.NoError(t, err)

	// The team write lands; the user-document write fails.
	f.store.FailUpdate = func(collection, id string) error {
		if collection == usersrepo.Collection && id == "member" {
			return errors.New("store unavailable")
		}
		return nil
	}

	err = f.svc.Join(ctx, f.view(t, "member"), p.ID)

	var partial *audit.PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "users.currentProject", partial.FailedStep)
	assert.Equal(t, p.ID, partial.EntityID)

	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, "member", f.recorder.records[0].UserID)
	assert.Equal(t, "users.currentProject", f.recorder.records[0].FailedStep)

	// The half that landed is visible: team updated, user document not.
	got, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasMember("member"))

	f.store.FailUpdate = nil
	assert.Empty(t, f.view(t, "member").CurrentProject)
}

func TestEditAndDeleteRestrictedToCreator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.addUser(t, "creator")
	member := f.addUser(t, "member")

	p, err := f.svc.Create(ctx, creator, CreateInput{Title: "Before"})
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, member, p.ID, CreateInput{Title: "Hijacked"}, "")
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)

	edited, err := f.svc.Edit(ctx, creator, p.ID, CreateInput{Title: "After", Stage: domain.StageMVP}, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, "After", edited.Title)
	assert.Equal(t, domain.StageMVP, edited.Stage)
	assert.Equal(t, domain.StatusClosed, edited.Status)

	require.ErrorAs(t, f.svc.Delete(ctx, member, p.ID), &denied)
	require.NoError(t, f.svc.Delete(ctx, creator, p.ID))

	_, err = f.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestJoinMissingProject(t *testing.T) {
	f := newFixture(t)
	member := f.addUser(t, "member")

	err := f.svc.Join(context.Background(), member, "proj_ghost")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
