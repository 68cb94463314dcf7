// Package view holds the dashboard state and keeps it in step with the
// backend. Every mutation is followed by a full re-fetch; nothing is patched
// locally.
package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"precinct/contracts/records"
	"precinct/internal/console/form"
	"precinct/internal/console/session"
)

const DeletePrompt = "Are you sure you want to delete this record?"

// Backend is satisfied by client.Client.
type Backend interface {
	List(ctx context.Context, query *string) ([]records.Record, error)
	Upsert(ctx context.Context, rec records.Record, create bool) error
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the operator a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes; used when the operator confirmed beforehand.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })

// ErrNoSelection is returned by Delete for an empty record ID.
var ErrNoSelection = errors.New("no record selected")

// ErrModalClosed is returned by Submit when no add or edit form is open.
var ErrModalClosed = errors.New("no form is open")

// Snapshot is a copy of the view state.
type Snapshot struct {
	Query     *string
	Records   []records.Record
	Selected  *records.Record
	ModalOpen bool
	Form      form.State
	LastError error
}

type Controller struct {
	backend Backend
	session *session.Session
	confirm Confirmer
	newID   func() string
	logger  *slog.Logger

	mu        sync.Mutex
	query     *string
	records   []records.Record
	selected  *records.Record
	modalOpen bool
	form      form.State
	lastErr   error
}

type Option func(*Controller)

func WithConfirmer(c Confirmer) Option {
	return func(ctl *Controller) {
		ctl.confirm = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(ctl *Controller) {
		ctl.logger = logger
	}
}

// WithIDGenerator replaces form.NewID for records created in add mode.
func WithIDGenerator(gen func() string) Option {
	return func(ctl *Controller) {
		ctl.newID = gen
	}
}

// New returns a controller in its initial state. sess may be nil when the
// caller enforces login itself.
func New(backend Backend, sess *session.Session, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		session: sess,
		confirm: AlwaysConfirm,
		newID:   form.NewID,
		records: []records.Record{},
		form:    form.ForAdd(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Controller) guard() error {
	if c.session == nil {
		return nil
	}
	return c.session.Require()
}

// Mount performs the first load with the current query.
func (c *Controller) Mount(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// SetQuery stores q and reloads if it differs from the current query.
func (c *Controller) SetQuery(ctx context.Context, q *string) error {
	c.mu.Lock()
	if equalQuery(c.query, q) {
		c.mu.Unlock()
		return nil
	}
	if q != nil {
		v := *q
		q = &v
	}
	c.query = q
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh re-runs the list load for the current query. On failure the list
// is emptied and the error kept for LastError.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	c.mu.Lock()
	query := c.query
	c.mu.Unlock()

	recs, err := c.backend.List(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load records", "error", err)
		c.records = []records.Record{}
		c.lastErr = err
		return err
	}
	if recs == nil {
		recs = []records.Record{}
	}
	c.records = recs
	c.lastErr = nil
	return nil
}

// OpenAdd opens the modal in add mode with empty defaults.
func (c *Controller) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.form = form.ForAdd()
	c.modalOpen = true
}

// OpenEdit opens the modal pre-filled from rec.
func (c *Controller) OpenEdit(rec records.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &rec
	c.form = form.ForEdit(rec)
	c.modalOpen = true
}

// CloseModal hides the modal and clears the selection, however it was closed.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeModalLocked()
}

func (c *Controller) closeModalLocked() {
	c.modalOpen = false
	c.selected = nil
	c.form = form.ForAdd()
}

// Submit upserts the modal's contents: create in add mode, update in edit
// mode. An invalid form keeps the modal open. On a backend failure the list
// is left as it was. Submitting with no modal open returns ErrModalClosed.
func (c *Controller) Submit(ctx context.Context, f form.State) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	if !c.modalOpen {
		c.mu.Unlock()
		return ErrModalClosed
	}
	selected := c.selected
	payload, err := f.Payload(selected, c.newID)
	if err != nil {
		c.form = f
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.closeModalLocked()
	c.mu.Unlock()

	if err := c.backend.Upsert(ctx, payload, selected == nil); err != nil {
		c.logger.ErrorContext(ctx, "failed to save record", "c_id", payload.ID, "error", err)
		c.setError(err)
		return err
	}
	return c.Refresh(ctx)
}

// Delete asks for confirmation and removes rec. A declined prompt makes no
// backend call and returns nil.
func (c *Controller) Delete(ctx context.Context, rec records.Record) error {
	if err := c.guard(); err != nil {
		return err
	}
	if rec.ID == "" {
		return ErrNoSelection
	}
	if !c.confirm.Confirm(ctx, DeletePrompt) {
		return nil
	}
	if err := c.backend.Delete(ctx, rec.ID); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete record", "c_id", rec.ID, "error", err)
		c.setError(err)
		return err
	}
	return c.Refresh(ctx)
}

// Reset returns to the initial state, e.g. on logout.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = nil
	c.records = []records.Record{}
	c.closeModalLocked()
	c.lastErr = nil
}

// LastError is the error of the most recent failed operation, cleared by the
// next successful load.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) ClearError() {
	c.setError(nil)
}

func (c *Controller) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Records:   slices.Clone(c.records),
		ModalOpen: c.modalOpen,
		Form:      c.form,
		LastError: c.lastErr,
	}
	if c.query != nil {
		q := *c.query
		snap.Query = &q
	}
	if c.selected != nil {
		sel := *c.selected
		snap.Selected = &sel
	}
	return snap
}

func equalQuery(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
