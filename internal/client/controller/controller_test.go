package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pdfdesk/internal/client/client"
	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
	"github.com/dmitrijs2005/pdfdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

type uploadCall struct {
	name    string
	content string
}

type askCall struct {
	id       string
	question string
}

type fakeClient struct {
	mu sync.Mutex

	// List
	listCalls []models.Filter
	listOut   map[models.Filter][]models.Document
	listErr   error

	// Update
	updates   []models.Document
	updateErr error

	// Delete
	deleted   []string
	deleteErr error

	// Upload
	uploads   []uploadCall
	uploadOut models.Document
	uploadErr error

	// Summarize
	summarized []string
	summaryOut string
	summaryErr error

	// Ask
	asks   []askCall
	askOut string
	askErr error
}

func (f *fakeClient) List(ctx context.Context, filter models.Filter) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut[filter], nil
}

func (f *fakeClient) Update(ctx context.Context, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, doc)
	return f.updateErr
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeClient) Upload(ctx context.Context, name string, r io.Reader) (models.Document, error) {
	b, _ := io.ReadAll(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, uploadCall{name: name, content: string(b)})
	return f.uploadOut, f.uploadErr
}

func (f *fakeClient) Summarize(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summarized = append(f.summarized, id)
	return f.summaryOut, f.summaryErr
}

func (f *fakeClient) Ask(ctx context.Context, id, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asks = append(f.asks, askCall{id: id, question: question})
	return f.askOut, f.askErr
}

func (f *fakeClient) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeClient) lastUpdate() models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) list() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

func docs(t *testing.T, s string) []models.Document {
	t.Helper()
	var out []models.Document
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

const initialList = `[{"id":1,"name":"a","selected":false},{"id":2,"name":"b","selected":true}]`

func newLoaded(t *testing.T, delay time.Duration) (*Controller, *fakeClient, *alerts) {
	t.Helper()
	fc := &fakeClient{listOut: map[models.Filter][]models.Document{
		models.FilterAll: docs(t, initialList),
	}}
	al := &alerts{}
	c := New(fc, al, nil, delay)
	t.Cleanup(c.Close)
	require.NoError(t, c.Init(context.Background()))
	return c, fc, al
}

// ------------ load & filter ------------

func TestInit_LoadsCollectionVerbatim(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)

	assert.JSONEq(t, initialList, mustJSON(t, c.Documents()))
	assert.Equal(t, []models.Filter{models.FilterAll}, fc.listCalls)
}

func TestInit_RunsOnce(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)

	require.NoError(t, c.Init(context.Background()))
	require.NoError(t, c.Init(context.Background()))

	assert.Len(t, fc.listCalls, 1)
}

func TestInit_ReturnsFirstError(t *testing.T) {
	fc := &fakeClient{listErr: errors.New("down")}
	c := New(fc, nil, nil, time.Hour)
	t.Cleanup(c.Close)

	require.Error(t, c.Init(context.Background()))
	require.Error(t, c.Init(context.Background()))
	assert.Len(t, fc.listCalls, 1)
	assert.Empty(t, c.Documents())
}

func TestSetFilter_ReplacesCollection(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	fc.listOut[models.FilterSelected] = docs(t, `[{"id":9,"name":"z","selected":true}]`)

	require.NoError(t, c.SetFilter(context.Background(), models.FilterSelected))

	assert.Equal(t, models.FilterSelected, c.Filter())
	assert.Equal(t, models.FilterSelected, fc.listCalls[len(fc.listCalls)-1])
	assert.JSONEq(t, `[{"id":9,"name":"z","selected":true}]`, mustJSON(t, c.Documents()))
}

func TestSetFilter_EmptyResponseClearsList(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	fc.listOut[models.FilterUnselected] = []models.Document{}

	require.NoError(t, c.SetFilter(context.Background(), models.FilterUnselected))
	assert.Empty(t, c.Documents())
}

func TestLoad_FailureKeepsState(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.listErr = errors.New("boom")

	require.Error(t, c.SetFilter(context.Background(), models.FilterSelected))

	assert.JSONEq(t, initialList, mustJSON(t, c.Documents()))
	assert.Empty(t, al.list(), "list failures are not alerted")
}

func TestDocuments_ReturnsCopy(t *testing.T) {
	c, _, _ := newLoaded(t, time.Hour)

	got := c.Documents()
	got[0].Name = "hacked"

	d, ok := c.Document("1")
	require.True(t, ok)
	assert.Equal(t, "a", d.Name)
}

// ------------ edit & persist ------------

func TestEditField_OptimisticThenSingleDebouncedWrite(t *testing.T) {
	c, fc, al := newLoaded(t, 50*time.Millisecond)
	ctx := context.Background()

	for _, v := range []string{"a0", "a1", "a2"} {
		ok, err := c.EditField(ctx, "1", models.FieldName, v)
		require.NoError(t, err)
		require.True(t, ok)
	}

	d, _ := c.Document("1")
	assert.Equal(t, "a2", d.Name, "local value must change immediately")
	assert.Equal(t, 0, fc.updateCount(), "write must wait for the quiet period")

	require.Eventually(t, func() bool { return fc.updateCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, fc.updateCount())
	assert.JSONEq(t, `{"id":1,"name":"a2","selected":false}`, mustJSON(t, fc.lastUpdate()))
	assert.Empty(t, al.list())
}

func TestEditField_DocumentsAreDebouncedIndependently(t *testing.T) {
	c, fc, _ := newLoaded(t, 30*time.Millisecond)
	ctx := context.Background()

	_, err := c.EditField(ctx, "1", models.FieldSelected, true)
	require.NoError(t, err)
	_, err = c.EditField(ctx, "2", models.FieldName, "b2")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return fc.updateCount() == 2 }, time.Second, 5*time.Millisecond)

	fc.mu.Lock()
	got := map[string]models.Document{}
	for _, u := range fc.updates {
		got[u.ID] = u
	}
	fc.mu.Unlock()

	assert.True(t, got["1"].Selected)
	assert.Equal(t, "b2", got["2"].Name)
}

func TestEditField_LastWriteCarriesEarlierFields(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	ctx := context.Background()

	_, err := c.EditField(ctx, "1", models.FieldSelected, true)
	require.NoError(t, err)
	_, err = c.EditField(ctx, "1", models.FieldName, "renamed")
	require.NoError(t, err)

	c.Flush()

	require.Equal(t, 1, fc.updateCount())
	assert.JSONEq(t, `{"id":1,"name":"renamed","selected":true}`, mustJSON(t, fc.lastUpdate()))
}

func TestPersist_ReloadDoesNotOverrideEdit(t *testing.T) {
	c, fc, _ := newLoaded(t, 40*time.Millisecond)
	ctx := context.Background()

	_, err := c.EditField(ctx, "1", models.FieldName, "a2")
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx, models.FilterAll))

	require.Eventually(t, func() bool { return fc.updateCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"id":1,"name":"a2","selected":false}`, mustJSON(t, fc.lastUpdate()))
}

func TestPersist_FiresAfterRemove(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	ctx := context.Background()

	_, err := c.EditField(ctx, "1", models.FieldName, "gone")
	require.NoError(t, err)
	require.NoError(t, c.Remove(ctx, "1"))
	c.Flush()

	require.Equal(t, 1, fc.updateCount())
	assert.JSONEq(t, `{"id":1,"name":"gone","selected":false}`, mustJSON(t, fc.lastUpdate()))
}

func TestEditField_UnknownIDIsNoOp(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)

	ok, err := c.EditField(context.Background(), "404", models.FieldName, "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.PendingWrites())
	assert.Equal(t, 0, fc.updateCount())
}

func TestEditField_InvalidValue(t *testing.T) {
	c, _, _ := newLoaded(t, time.Hour)

	ok, err := c.EditField(context.Background(), "1", models.FieldSelected, "yes")
	require.ErrorIs(t, err, models.ErrInvalidFieldValue)
	assert.False(t, ok)
	assert.Equal(t, 0, c.PendingWrites())

	d, _ := c.Document("1")
	assert.False(t, d.Selected)
}

func TestEditField_PersistFailureKeepsLocalValue(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.updateErr = fmt.Errorf("%w: 500", client.ErrUnexpectedStatus)

	_, err := c.EditField(context.Background(), "2", models.FieldName, "local-only")
	require.NoError(t, err)
	c.Flush()

	assert.Equal(t, 1, fc.updateCount())
	d, _ := c.Document("2")
	assert.Equal(t, "local-only", d.Name, "no rollback on failed write")
	assert.Empty(t, al.list(), "failed writes are not alerted")
}

func TestClose_FlushesAndStops(t *testing.T) {
	fc := &fakeClient{listOut: map[models.Filter][]models.Document{models.FilterAll: docs(t, initialList)}}
	c := New(fc, nil, nil, time.Hour)
	require.NoError(t, c.Init(context.Background()))

	_, err := c.EditField(context.Background(), "1", models.FieldName, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, c.PendingWrites())

	c.Close()
	assert.Equal(t, 1, fc.updateCount())

	_, err = c.EditField(context.Background(), "1", models.FieldName, "y")
	require.NoError(t, err)
	assert.Equal(t, 0, c.PendingWrites())
}

// ------------ remove ------------

func TestRemove_FailureKeepsDocument(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.deleteErr = fmt.Errorf("%w: 500", client.ErrUnexpectedStatus)

	require.Error(t, c.Remove(context.Background(), "2"))

	assert.Equal(t, []string{"2"}, fc.deleted)
	assert.JSONEq(t, initialList, mustJSON(t, c.Documents()))
	assert.Empty(t, al.list())
}

func TestRemove_NotFoundIsLoggedAtDebug(t *testing.T) {
	fc := &fakeClient{
		listOut:   map[models.Filter][]models.Document{models.FilterAll: docs(t, initialList)},
		deleteErr: &client.StatusError{Op: "delete document", StatusCode: http.StatusNotFound},
	}
	var logs bytes.Buffer
	logger, err := logging.New(&logs, "debug")
	require.NoError(t, err)
	c := New(fc, nil, logger, time.Hour)
	t.Cleanup(c.Close)
	require.NoError(t, c.Init(context.Background()))

	err = c.Remove(context.Background(), "2")
	require.ErrorIs(t, err, client.ErrNotFound)

	assert.Contains(t, logs.String(), "level=DEBUG")
	assert.Contains(t, logs.String(), "document already gone on backend")
	assert.NotContains(t, logs.String(), "level=WARN")
	assert.JSONEq(t, initialList, mustJSON(t, c.Documents()))
}

func TestRemove_SuccessDropsDocumentKeepsOrder(t *testing.T) {
	fc := &fakeClient{listOut: map[models.Filter][]models.Document{
		models.FilterAll: docs(t, `[{"id":1,"name":"a"},{"id":2,"name":"b"},{"id":3,"name":"c"}]`),
	}}
	c := New(fc, nil, nil, time.Hour)
	t.Cleanup(c.Close)
	require.NoError(t, c.Init(context.Background()))

	require.NoError(t, c.Remove(context.Background(), "2"))

	got := c.Documents()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

// ------------ upload ------------

func writePDF(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUpload_NoFileSelected(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)

	_, err := c.Upload(context.Background())
	require.ErrorIs(t, err, ErrNoFileSelected)

	assert.Equal(t, []string{MsgNoFileSelected}, al.list())
	assert.Empty(t, fc.uploads, "no request without a file")
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	c.SelectFile(writePDF(t, "notes.txt", "hello"))

	_, err := c.Upload(context.Background())
	require.ErrorIs(t, err, ErrNotPDF)

	assert.Equal(t, []string{MsgNotPDF}, al.list())
	assert.Empty(t, fc.uploads)
}

func TestUpload_AppendsCreatedDocument(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.uploadOut = docs(t, `[{"id":3,"name":"c","selected":false}]`)[0]
	c.SelectFile(writePDF(t, "c.PDF", "%PDF-1.7"))

	doc, err := c.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3", doc.ID)

	require.Len(t, fc.uploads, 1)
	assert.Equal(t, uploadCall{name: "c.PDF", content: "%PDF-1.7"}, fc.uploads[0])

	got := c.Documents()
	require.Len(t, got, 3)
	assert.JSONEq(t, `{"id":3,"name":"c","selected":false}`, mustJSON(t, got[2]))
	assert.Empty(t, al.list())
}

func TestUpload_BackendFailure(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.uploadErr = fmt.Errorf("%w: 500", client.ErrUnexpectedStatus)
	c.SelectFile(writePDF(t, "c.pdf", "%PDF"))

	_, err := c.Upload(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{MsgUploadFailed}, al.list())
	assert.Len(t, c.Documents(), 2)
}

func TestUpload_MissingFile(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	c.SelectFile(filepath.Join(t.TempDir(), "gone.pdf"))

	_, err := c.Upload(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{MsgUploadFailed}, al.list())
	assert.Empty(t, fc.uploads)
}

// ------------ ask ------------

func TestAskQuestion_NoSelectedDocument(t *testing.T) {
	fc := &fakeClient{listOut: map[models.Filter][]models.Document{
		models.FilterAll: docs(t, `[{"id":1,"name":"a","selected":false}]`),
	}}
	al := &alerts{}
	c := New(fc, al, nil, time.Hour)
	t.Cleanup(c.Close)
	require.NoError(t, c.Init(context.Background()))
	c.SetQuestion("what?")

	_, err := c.AskQuestion(context.Background())
	require.ErrorIs(t, err, ErrNoDocumentSelected)

	assert.Equal(t, []string{MsgNoDocumentSelected}, al.list())
	assert.Empty(t, fc.asks)
	assert.Equal(t, "what?", c.Question())
}

func TestAskQuestion_EmptyQuestion(t *testing.T) {
	for _, q := range []string{"", "   "} {
		c, fc, al := newLoaded(t, time.Hour)
		c.SetQuestion(q)

		_, err := c.AskQuestion(context.Background())
		require.ErrorIs(t, err, ErrEmptyQuestion)

		assert.Equal(t, []string{MsgEmptyQuestion}, al.list())
		assert.Empty(t, fc.asks)
	}
}

func TestAskQuestion_ReplacesBufferWithAnswer(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	fc.askOut = "It is about cats."
	c.SetQuestion("What is it about?")

	answer, err := c.AskQuestion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "It is about cats.", answer)
	assert.Equal(t, "It is about cats.", c.Question())
	assert.Equal(t, []askCall{{id: "2", question: "What is it about?"}}, fc.asks)
	assert.Empty(t, al.list())
}

func TestAskQuestion_UsesFirstSelected(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	_, err := c.EditField(context.Background(), "1", models.FieldSelected, true)
	require.NoError(t, err)
	c.SetQuestion("q")

	_, err = c.AskQuestion(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.asks, 1)
	assert.Equal(t, "1", fc.asks[0].id)
}

func TestAskQuestion_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{name: "server error", err: &client.StatusError{Op: "ask question", StatusCode: 500}, msg: MsgAskFailed},
		{name: "unreachable", err: fmt.Errorf("ask question: %w: dial tcp", client.ErrUnavailable), msg: MsgAskUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fc, al := newLoaded(t, time.Hour)
			fc.askErr = tt.err
			c.SetQuestion("q")

			_, err := c.AskQuestion(context.Background())
			require.Error(t, err)

			assert.Equal(t, []string{tt.msg}, al.list())
			assert.Equal(t, "q", c.Question(), "buffer keeps the question on failure")
		})
	}
}

// ------------ rows ------------

func TestRow_IsStableAndPrunedOnReload(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)

	r1, ok := c.Row("1")
	require.True(t, ok)
	r1again, _ := c.Row("1")
	assert.Same(t, r1, r1again)

	_, ok = c.Row("404")
	assert.False(t, ok)

	fc.listOut[models.FilterSelected] = docs(t, `[{"id":2,"name":"b","selected":true}]`)
	require.NoError(t, c.SetFilter(context.Background(), models.FilterSelected))

	_, ok = c.Row("1")
	assert.False(t, ok)
}

func TestRow_ChangesGoThroughController(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	ctx := context.Background()

	r, ok := c.Row("1")
	require.True(t, ok)

	require.NoError(t, r.SetSelected(ctx, true))
	require.NoError(t, r.Rename(ctx, "renamed"))

	d, ok := r.Document()
	require.True(t, ok)
	assert.True(t, d.Selected)
	assert.Equal(t, "renamed", d.Name)
	assert.Equal(t, 1, c.PendingWrites())

	require.NoError(t, r.Delete(ctx))
	assert.Equal(t, []string{"1"}, fc.deleted)
	_, ok = r.Document()
	assert.False(t, ok)
}

func TestRow_GenerateAndCloseSummary(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	ctx := context.Background()
	fc.summaryOut = "first summary"

	r, _ := c.Row("2")
	text, visible := r.Summary()
	assert.Empty(t, text)
	assert.False(t, visible)

	require.NoError(t, r.GenerateSummary(ctx))
	text, visible = r.Summary()
	assert.Equal(t, "first summary", text)
	assert.True(t, visible)
	assert.Equal(t, []string{"2"}, fc.summarized)

	r.CloseSummary()
	text, visible = r.Summary()
	assert.Equal(t, "first summary", text, "closing keeps the text")
	assert.False(t, visible)

	fc.summaryOut = "second summary"
	require.NoError(t, r.GenerateSummary(ctx))
	text, visible = r.Summary()
	assert.Equal(t, "second summary", text)
	assert.True(t, visible)
}

func TestRow_SummaryFailureIsSilent(t *testing.T) {
	c, fc, al := newLoaded(t, time.Hour)
	ctx := context.Background()

	r, _ := c.Row("1")
	fc.summaryOut = "kept"
	require.NoError(t, r.GenerateSummary(ctx))
	r.CloseSummary()

	fc.summaryErr = errors.New("llm timeout")
	require.Error(t, r.GenerateSummary(ctx))

	text, visible := r.Summary()
	assert.Equal(t, "kept", text)
	assert.False(t, visible)
	assert.Empty(t, al.list())
}

func TestRow_SurvivesRemoveOfOtherDocument(t *testing.T) {
	c, fc, _ := newLoaded(t, time.Hour)
	fc.summaryOut = "s"

	r, _ := c.Row("1")
	require.NoError(t, r.GenerateSummary(context.Background()))
	require.NoError(t, c.Remove(context.Background(), "2"))

	again, ok := c.Row("1")
	require.True(t, ok)
	assert.Same(t, r, again)
}
