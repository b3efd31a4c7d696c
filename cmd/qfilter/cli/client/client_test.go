package client

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/qfilter/cmd/qfilter/cli"
	"github.com/mwantia/qfilter/internal/editor"
	"github.com/mwantia/qfilter/pkg/db/store"
	"github.com/mwantia/qfilter/pkg/query"
	"github.com/mwantia/qfilter/pkg/widget"
)

type runner struct {
	t  *testing.T
	db string
}

func newRunner(t *testing.T) *runner {
	return &runner{t: t, db: filepath.Join(t.TempDir(), "qfilter.db")}
}

func (r *runner) run(stdin string, args ...string) (string, error) {
	r.t.Helper()

	root := cli.NewRootCommand(cli.VersionInfo{Version: "test", Commit: "test"})
	root.AddCommand(NewSourceCommand())
	root.AddCommand(NewWidgetCommand())

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", r.db, "--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), err
}

func (r *runner) mustRun(stdin string, args ...string) string {
	r.t.Helper()

	out, err := r.run(stdin, args...)
	require.NoError(r.t, err, strings.Join(args, " "))
	return out
}

func TestSourceCommand_AddAndList(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("", "source", "add", "users", "--name", "Users", "--columns", "Name,Email")
	assert.Equal(t, "users\n", out)
	r.mustRun("", "source", "add", "orders", "-c", "Code")

	var sources []store.DataSource
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "source", "ls", "--json")), &sources))
	require.Len(t, sources, 2)
	assert.Equal(t, store.DataSource{ID: "users", Name: "Users", Columns: []string{"Name", "Email"}}, sources[0])
	assert.Equal(t, store.DataSource{ID: "orders", Name: "orders", Columns: []string{"Code"}}, sources[1])

	table := r.mustRun("", "source", "ls")
	assert.Contains(t, table, "ID")
	assert.Contains(t, table, "Name,Email")
}

func TestSourceCommand_Update(t *testing.T) {
	r := newRunner(t)

	r.mustRun("", "source", "add", "users", "-c", "Name")
	r.mustRun("", "source", "add", "users", "-c", "Name,Email", "--update")

	var sources []store.DataSource
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "source", "ls", "--json")), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, []string{"Name", "Email"}, sources[0].Columns)

	_, err := r.run("", "source", "add", "missing", "-c", "Name", "--update")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSourceCommand_AddRejectsInvalidInput(t *testing.T) {
	r := newRunner(t)

	_, err := r.run("", "source", "add", "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data source")

	_, err = r.run("", "source", "add", "users", "-c", "Name,Name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data source")
}

func TestSourceCommand_Remove(t *testing.T) {
	r := newRunner(t)

	r.mustRun("", "source", "add", "users", "-c", "Name")
	r.mustRun("", "source", "rm", "users")

	_, err := r.run("", "source", "rm", "users")
	assert.ErrorIs(t, err, store.ErrNotFound)

	r.mustRun("", "source", "add", "users", "-c", "Email")

	var sources []store.DataSource
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "source", "ls", "--json")), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, []string{"Email"}, sources[0].Columns)
}

func TestWidgetCommand_SaveAndLoad(t *testing.T) {
	r := newRunner(t)
	r.mustRun("", "source", "add", "users", "-c", "Name,Email,Status")

	form := `{
		"settings": {"columns": [{"key": "title", "label": "Title"}]},
		"dataSourceId": "users",
		"columns": {"title": "Name"},
		"applyFilters": true,
		"filters": [
			{"column": "Name", "operator": "contains", "value": "Jo", "ignoreCase": true},
			{"column": "Status", "operator": "is-exactly", "value": "Active"}
		]
	}`

	payload, err := widget.ParsePayload([]byte(r.mustRun(form, "widget", "save", "w1")))
	require.NoError(t, err)
	require.NotNil(t, payload.Result)
	assert.Equal(t, "users", payload.Result.DataSourceID)
	assert.Equal(t, []string{"Name"}, payload.Result.ColumnsCompact)
	assert.Equal(t, []query.Condition{
		{Column: "Name", Comparison: query.ILike{Pattern: "%Jo%"}},
		{Column: "Status", Comparison: query.Eq{Value: "Active"}},
	}, payload.Result.Filters.And)

	var state editor.State
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "widget", "load", "w1")), &state))
	require.NotNil(t, state.DataSource)
	assert.Equal(t, "users", state.DataSource.ID)
	assert.True(t, state.ApplyFilters)
	assert.True(t, state.ShowFilters)
	assert.Equal(t, []query.FilterRule{
		{Column: "Name", Operator: query.OpContains, Value: "Jo", IgnoreCase: true},
		{Column: "Status", Operator: query.OpIsExactly, Value: "Active"},
	}, state.Filters)

	var instance widget.Instance
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "widget", "show", "w1")), &instance))
	assert.Equal(t, "title", instance.Settings.Columns[0].Key)
	require.NotNil(t, instance.Result.Result)

	assert.Contains(t, r.mustRun("", "widget", "ls"), "w1")
}

func TestWidgetCommand_SaveWithoutDataSourceKeepsDiagnostic(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun(`{"applyFilters": false}`, "widget", "save", "w1", "--compact")
	assert.Equal(t, `"Unable to compute result: no data source selected"`+"\n", out)

	var instance widget.Instance
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "widget", "show", "w1")), &instance))
	assert.True(t, instance.Result.Failed())
	assert.Contains(t, r.mustRun("", "widget", "ls"), "failed")
}

func TestWidgetCommand_SaveUnknownDataSource(t *testing.T) {
	r := newRunner(t)

	_, err := r.run(`{"dataSourceId": "nope"}`, "widget", "save", "w1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data source 'nope'")
}

func TestWidgetCommand_SaveRejectsUndeclaredField(t *testing.T) {
	r := newRunner(t)
	r.mustRun("", "source", "add", "users", "-c", "Name")

	form := `{
		"settings": {"columns": [{"key": "title"}]},
		"dataSourceId": "users",
		"columns": {"author": "Name"}
	}`

	_, err := r.run(form, "widget", "save", "w1")
	assert.ErrorIs(t, err, editor.ErrUnknownField)
}

func TestWidgetCommand_ApplyFiltersAddsDefaultRule(t *testing.T) {
	r := newRunner(t)
	r.mustRun("", "source", "add", "users", "-c", "Name,Email")

	payload, err := widget.ParsePayload([]byte(r.mustRun(`{"dataSourceId": "users", "applyFilters": true}`, "widget", "save", "w1")))
	require.NoError(t, err)
	require.NotNil(t, payload.Result)
	assert.Equal(t, []query.Condition{
		{Column: "Name", Comparison: query.Eq{Value: ""}},
	}, payload.Result.Filters.And)
}

func TestWidgetCommand_LoadUnknownWidget(t *testing.T) {
	r := newRunner(t)
	r.mustRun("", "source", "add", "users", "-c", "Name")

	var state editor.State
	require.NoError(t, json.Unmarshal([]byte(r.mustRun("", "widget", "load", "fresh")), &state))
	assert.Nil(t, state.DataSource)
	assert.Len(t, state.DataSources, 1)
	assert.Empty(t, state.Filters)
}

func TestWidgetCommand_Remove(t *testing.T) {
	r := newRunner(t)

	r.mustRun(`{}`, "widget", "save", "w1")
	r.mustRun("", "widget", "rm", "w1")

	_, err := r.run("", "widget", "show", "w1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
