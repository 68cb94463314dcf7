package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"precinct/contracts/records"
	"precinct/internal/console/client"
	"precinct/internal/console/form"
	"precinct/internal/console/session"
	"precinct/internal/platform/logger"
	"precinct/pkg/testutil"
	"precinct/pkg/testutil/backend"
)

func ptr(s string) *string { return &s }

// recordingBackend wraps a Backend and counts mutating calls.
type recordingBackend struct {
	Backend
	mu      sync.Mutex
	lists   int
	upserts []bool
	deletes []string
}

func (r *recordingBackend) List(ctx context.Context, q *string) ([]records.Record, error) {
	r.mu.Lock()
	r.lists++
	r.mu.Unlock()
	return r.Backend.List(ctx, q)
}

func (r *recordingBackend) Upsert(ctx context.Context, rec records.Record, create bool) error {
	r.mu.Lock()
	r.upserts = append(r.upserts, create)
	r.mu.Unlock()
	return r.Backend.Upsert(ctx, rec, create)
}

func (r *recordingBackend) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	r.deletes = append(r.deletes, id)
	r.mu.Unlock()
	return r.Backend.Delete(ctx, id)
}

type ControllerSuite struct {
	suite.Suite
	backend  *backend.Backend
	recorder *recordingBackend
	session  *session.Session
	ctl      *Controller
	ctx      context.Context
	ids      int
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = backend.New(s.T())
	c, err := client.New(s.backend.URL(), client.WithLogger(logger.Discard()))
	s.Require().NoError(err)

	s.recorder = &recordingBackend{Backend: c}
	s.session = session.New()
	s.session.Init(session.Officer{PoliceID: "P1", PoliceName: "Jane"})
	s.ids = 0
	s.ctl = New(s.recorder, s.session,
		WithLogger(logger.Discard()),
		WithIDGenerator(func() string {
			s.ids++
			return "generated-" + string(rune('0'+s.ids))
		}),
	)
}

func (s *ControllerSuite) records() []records.Record {
	return s.ctl.Snapshot().Records
}

func (s *ControllerSuite) TestMountLoadsEverything() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)

	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.Equal([]records.Record{testutil.Alice, testutil.Bob}, s.records())
	s.Nil(s.ctl.Snapshot().Query)
}

func (s *ControllerSuite) TestMountRequiresSession() {
	s.session.Teardown()
	s.ErrorIs(s.ctl.Mount(s.ctx), session.ErrNotLoggedIn)
	s.Zero(s.recorder.lists)
}

func (s *ControllerSuite) TestSetQueryReloadsOnlyOnChange() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)
	s.Require().NoError(s.ctl.Mount(s.ctx))
	s.Equal(1, s.recorder.lists)

	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("a1")))
	s.Equal([]records.Record{testutil.Alice}, s.records())
	s.Equal(2, s.recorder.lists)

	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("a1")))
	s.Equal(2, s.recorder.lists)

	s.Require().NoError(s.ctl.SetQuery(s.ctx, nil))
	s.Len(s.records(), 2)
	s.Equal(3, s.recorder.lists)
}

func (s *ControllerSuite) TestSetQueryCopiesInput() {
	q := "a1"
	s.Require().NoError(s.ctl.SetQuery(s.ctx, &q))
	q = "changed"
	s.Equal("a1", *s.ctl.Snapshot().Query)
}

func (s *ControllerSuite) TestListIsIdempotent() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)
	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("b")))
	first := s.records()
	s.Require().NoError(s.ctl.Refresh(s.ctx))
	s.Equal(first, s.records())
}

func (s *ControllerSuite) TestScenarioA() {
	alice := records.Record{ID: "1", Name: "Alice", Sex: records.SexFemale, NationalID: "A1"}
	s.backend.Seed(s.T(), alice)

	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("")))
	s.Equal([]records.Record{alice}, s.records())

	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("nomatch")))
	s.Empty(s.records())
}

func (s *ControllerSuite) TestScenarioB() {
	s.Require().NoError(s.ctl.Mount(s.ctx))
	s.Empty(s.records())

	s.ctl.OpenAdd()
	s.Require().NoError(s.ctl.Submit(s.ctx, form.State{Name: "Bob", Sex: records.SexMale}))

	s.Equal([]records.Record{{ID: "generated-1", Name: "Bob", Sex: records.SexMale, NationalID: ""}}, s.records())
	s.Equal([]bool{true}, s.recorder.upserts)
}

func (s *ControllerSuite) TestOpenAddDefaults() {
	s.ctl.OpenEdit(testutil.Alice)
	s.ctl.OpenAdd()

	snap := s.ctl.Snapshot()
	s.True(snap.ModalOpen)
	s.Nil(snap.Selected)
	s.Equal(form.State{Sex: records.SexMale}, snap.Form)
}

func (s *ControllerSuite) TestCreateThenListHasFreshID() {
	s.backend.Seed(s.T(), testutil.Alice)
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.ctl.OpenAdd()
	s.Require().NoError(s.ctl.Submit(s.ctx, form.State{Name: "Carol", Sex: records.SexFemale, NationalID: "C1"}))

	recs := s.records()
	s.Require().Len(recs, 2)
	s.Equal(testutil.Alice, recs[0])
	s.Equal(records.Record{ID: "generated-1", Name: "Carol", Sex: records.SexFemale, NationalID: "C1"}, recs[1])
	s.False(s.ctl.Snapshot().ModalOpen)
}

func (s *ControllerSuite) TestEditUpdatesOnlyTarget() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.ctl.OpenEdit(testutil.Alice)
	snap := s.ctl.Snapshot()
	s.Require().NotNil(snap.Selected)
	s.Equal("Alice", snap.Form.Name)

	edited := snap.Form
	edited.Name = "Alice Smith"
	s.Require().NoError(s.ctl.Submit(s.ctx, edited))

	want := testutil.Alice
	want.Name = "Alice Smith"
	s.Equal([]records.Record{want, testutil.Bob}, s.records())
	s.Equal([]bool{false}, s.recorder.upserts)
	s.Nil(s.ctl.Snapshot().Selected)
}

func (s *ControllerSuite) TestEditThenCancelLeavesBackendUnchanged() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)
	s.Require().NoError(s.ctl.Mount(s.ctx))
	before := s.backend.Snapshot(s.T())

	s.ctl.OpenEdit(testutil.Alice)
	s.ctl.CloseModal()

	snap := s.ctl.Snapshot()
	s.False(snap.ModalOpen)
	s.Nil(snap.Selected)
	s.Empty(s.recorder.upserts)
	s.Equal(before, s.backend.Snapshot(s.T()))
}

func (s *ControllerSuite) TestSecondSubmitAfterEditIsRejected() {
	s.backend.Seed(s.T(), testutil.Alice)
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.ctl.OpenEdit(testutil.Alice)
	edited := s.ctl.Snapshot().Form
	edited.Name = "Alice Smith"

	s.Require().NoError(s.ctl.Submit(s.ctx, edited))
	s.ErrorIs(s.ctl.Submit(s.ctx, edited), ErrModalClosed)

	s.Equal([]bool{false}, s.recorder.upserts)
	recs := s.backend.Snapshot(s.T())
	s.Require().Len(recs, 1)
	s.Equal(testutil.Alice.ID, recs[0].ID)
	s.Equal("Alice Smith", recs[0].Name)
}

func (s *ControllerSuite) TestSubmitWithoutOpenForm() {
	err := s.ctl.Submit(s.ctx, form.State{Name: "Bob", Sex: records.SexMale})

	s.ErrorIs(err, ErrModalClosed)
	s.Empty(s.recorder.upserts)
	s.Empty(s.backend.Snapshot(s.T()))
}

func (s *ControllerSuite) TestSubmitInvalidFormKeepsModalOpen() {
	s.ctl.OpenAdd()

	err := s.ctl.Submit(s.ctx, form.State{Name: " "})

	s.ErrorIs(err, form.ErrNameRequired)
	snap := s.ctl.Snapshot()
	s.True(snap.ModalOpen)
	s.ErrorIs(snap.LastError, form.ErrNameRequired)
	s.Empty(s.recorder.upserts)
}

func (s *ControllerSuite) TestDeleteConfirmed() {
	s.backend.Seed(s.T(), testutil.Alice, testutil.Bob)
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.Require().NoError(s.ctl.Delete(s.ctx, testutil.Alice))

	s.Equal([]records.Record{testutil.Bob}, s.records())
	s.Equal([]string{testutil.Alice.ID}, s.recorder.deletes)
}

func (s *ControllerSuite) TestDeleteDeclinedMakesNoCall() {
	s.backend.Seed(s.T(), testutil.Alice)
	var prompts []string
	ctl := New(s.recorder, s.session,
		WithLogger(logger.Discard()),
		WithConfirmer(ConfirmFunc(func(_ context.Context, prompt string) bool {
			prompts = append(prompts, prompt)
			return false
		})),
	)
	s.Require().NoError(ctl.Mount(s.ctx))

	s.Require().NoError(ctl.Delete(s.ctx, testutil.Alice))

	s.Equal([]string{DeletePrompt}, prompts)
	s.Empty(s.recorder.deletes)
	s.Equal([]records.Record{testutil.Alice}, ctl.Snapshot().Records)
}

func (s *ControllerSuite) TestDeleteMissingIDLeavesListUnchanged() {
	s.backend.Seed(s.T(), testutil.Alice)
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.Require().NoError(s.ctl.Delete(s.ctx, records.Record{ID: "ghost"}))
	s.Equal([]records.Record{testutil.Alice}, s.records())
}

func (s *ControllerSuite) TestDuplicateCreateSurfacesError() {
	s.backend.Seed(s.T(), testutil.Alice)
	ctl := New(s.recorder, s.session,
		WithLogger(logger.Discard()),
		WithIDGenerator(func() string { return testutil.Alice.ID }),
	)
	s.Require().NoError(ctl.Mount(s.ctx))
	before := ctl.Snapshot().Records

	ctl.OpenAdd()
	err := ctl.Submit(s.ctx, form.State{Name: "Impostor"})

	s.Require().Error(err)
	s.Equal("Record with this c_id already exists", client.UserMessage(ctl.LastError()))
	s.Equal(before, ctl.Snapshot().Records)
	s.False(ctl.Snapshot().ModalOpen)
}

func (s *ControllerSuite) TestResetRestoresInitialState() {
	s.backend.Seed(s.T(), testutil.Alice)
	s.Require().NoError(s.ctl.SetQuery(s.ctx, ptr("a")))
	s.ctl.OpenEdit(testutil.Alice)

	s.ctl.Reset()

	snap := s.ctl.Snapshot()
	s.Nil(snap.Query)
	s.Empty(snap.Records)
	s.NotNil(snap.Records)
	s.Nil(snap.Selected)
	s.False(snap.ModalOpen)
	s.NoError(snap.LastError)
}

// stubBackend fails List with listErr and mutations with mutErr.
type stubBackend struct {
	recs    []records.Record
	listErr error
	mutErr  error
}

func (b *stubBackend) List(context.Context, *string) ([]records.Record, error) {
	return b.recs, b.listErr
}

func (b *stubBackend) Upsert(context.Context, records.Record, bool) error { return b.mutErr }

func (b *stubBackend) Delete(context.Context, string) error { return b.mutErr }

func TestListFailureFailsSoftButIsVisible(t *testing.T) {
	b := &stubBackend{recs: []records.Record{testutil.Alice}}
	ctl := New(b, nil, WithLogger(logger.Discard()))
	require.NoError(t, ctl.Mount(context.Background()))
	require.Len(t, ctl.Snapshot().Records, 1)

	b.listErr = errors.New("connection refused")
	err := ctl.Refresh(context.Background())

	assert.Error(t, err)
	snap := ctl.Snapshot()
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Records)
	assert.EqualError(t, snap.LastError, "connection refused")

	b.listErr = nil
	require.NoError(t, ctl.Refresh(context.Background()))
	assert.NoError(t, ctl.LastError())
}

func TestMutationFailureLeavesRecordsUntouched(t *testing.T) {
	b := &stubBackend{recs: []records.Record{testutil.Alice}}
	ctl := New(b, nil, WithLogger(logger.Discard()))
	require.NoError(t, ctl.Mount(context.Background()))

	b.mutErr = errors.New("HTTP 500")
	b.recs = nil

	ctl.OpenEdit(testutil.Alice)
	assert.Error(t, ctl.Submit(context.Background(), form.ForEdit(testutil.Alice)))
	assert.Equal(t, []records.Record{testutil.Alice}, ctl.Snapshot().Records)

	assert.Error(t, ctl.Delete(context.Background(), testutil.Alice))
	assert.Equal(t, []records.Record{testutil.Alice}, ctl.Snapshot().Records)
	assert.EqualError(t, ctl.LastError(), "HTTP 500")

	ctl.ClearError()
	assert.NoError(t, ctl.LastError())
}

func TestDeleteWithoutID(t *testing.T) {
	ctl := New(&stubBackend{}, nil, WithLogger(logger.Discard()))
	assert.ErrorIs(t, ctl.Delete(context.Background(), records.Record{}), ErrNoSelection)
}

func TestConcurrentRefreshesDoNotTearState(t *testing.T) {
	b := &stubBackend{recs: []records.Record{testutil.Alice, testutil.Bob}}
	ctl := New(b, nil, WithLogger(logger.Discard()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ctl.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = ctl.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, []records.Record{testutil.Alice, testutil.Bob}, ctl.Snapshot().Records)
}
