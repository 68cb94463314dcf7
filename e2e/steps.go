package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"precinct/contracts/records"
	"precinct/internal/console/client"
	"precinct/internal/console/form"
	"precinct/pkg/testutil"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the records backend is running$`, tc.backendIsRunning)
	ctx.Step(`^the backend holds these records:$`, tc.backendHoldsRecords)
	ctx.Step(`^an officer "([^"]*)" is registered$`, tc.officerIsRegistered)

	// Console steps
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, tc.logIn)
	ctx.Step(`^I log in as officer "([^"]*)"$`, tc.logInAsOfficer)
	ctx.Step(`^I log out$`, tc.logOut)
	ctx.Step(`^I open the dashboard$`, tc.openDashboard)
	ctx.Step(`^I search for "([^"]*)"$`, tc.searchFor)
	ctx.Step(`^I clear the search$`, tc.clearSearch)
	ctx.Step(`^I add a record named "([^"]*)" with sex "([^"]*)" and national id "([^"]*)"$`, tc.addRecord)
	ctx.Step(`^I rename record "([^"]*)" to "([^"]*)"$`, tc.renameRecord)
	ctx.Step(`^I open record "([^"]*)" for editing and cancel$`, tc.editAndCancel)
	ctx.Step(`^I delete record "([^"]*)" and (confirm|decline)$`, tc.deleteRecord)

	// Raw contract steps
	ctx.Step(`^I GET "([^"]*)"$`, tc.get)
	ctx.Step(`^I POST to "([^"]*)" with body:$`, tc.postWithBody)

	// Assertion steps
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.operationFailsWith)
	ctx.Step(`^the operation succeeds$`, tc.operationSucceeds)
	ctx.Step(`^the dashboard shows (\d+) records?$`, tc.dashboardShowsCount)
	ctx.Step(`^the dashboard shows record "([^"]*)" named "([^"]*)"$`, tc.dashboardShowsRecord)
	ctx.Step(`^the dashboard shows a record named "([^"]*)" with a fresh id$`, tc.dashboardShowsFreshRecord)
	ctx.Step(`^the backend holds (\d+) records?$`, tc.backendHoldsCount)
	ctx.Step(`^the backend holds record "([^"]*)" named "([^"]*)"$`, tc.backendHoldsRecord)
	ctx.Step(`^the session is (active|inactive)$`, tc.sessionIs)
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
}

func (tc *TestContext) backendIsRunning(ctx context.Context) error {
	return tc.Start()
}

func (tc *TestContext) backendHoldsRecords(ctx context.Context, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("records table needs a header and at least one row")
	}
	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		var rec records.Record
		for i, cell := range row.Cells {
			switch header[i].Value {
			case "c_id":
				rec.ID = cell.Value
			case "name":
				rec.Name = cell.Value
			case "sex":
				rec.Sex = records.Sex(cell.Value)
			case "national_id":
				rec.NationalID = cell.Value
			default:
				return fmt.Errorf("unknown column %q", header[i].Value)
			}
		}
		tc.Backend.Seed(tc.t, rec)
	}
	return nil
}

func (tc *TestContext) officerIsRegistered(ctx context.Context, policeID string) error {
	tc.Backend.RegisterOfficer(tc.t, testutil.Officer(policeID))
	return nil
}

func (tc *TestContext) logIn(ctx context.Context, name, password string) error {
	_, tc.LastErr = tc.Session.Login(ctx, tc.API, name, password)
	return nil
}

func (tc *TestContext) logInAsOfficer(ctx context.Context, policeID string) error {
	officer := testutil.Officer(policeID)
	return tc.logIn(ctx, officer.PoliceName, officer.Password)
}

func (tc *TestContext) logOut(ctx context.Context) error {
	tc.Session.Teardown()
	tc.Dashboard.Reset()
	return nil
}

func (tc *TestContext) openDashboard(ctx context.Context) error {
	tc.LastErr = tc.Dashboard.Mount(ctx)
	return nil
}

func (tc *TestContext) searchFor(ctx context.Context, query string) error {
	tc.LastErr = tc.Dashboard.SetQuery(ctx, &query)
	return nil
}

func (tc *TestContext) clearSearch(ctx context.Context) error {
	tc.LastErr = tc.Dashboard.SetQuery(ctx, nil)
	return nil
}

func (tc *TestContext) addRecord(ctx context.Context, name, sex, nationalID string) error {
	tc.Dashboard.OpenAdd()
	tc.LastErr = tc.Dashboard.Submit(ctx, form.State{
		Name:       name,
		Sex:        records.Sex(sex),
		NationalID: nationalID,
	})
	return nil
}

func (tc *TestContext) renameRecord(ctx context.Context, id, name string) error {
	rec, ok := tc.DisplayedRecord(id)
	if !ok {
		return fmt.Errorf("record %s is not on the dashboard", id)
	}
	tc.Dashboard.OpenEdit(rec)
	st := form.ForEdit(rec)
	st.Name = name
	tc.LastErr = tc.Dashboard.Submit(ctx, st)
	return nil
}

func (tc *TestContext) editAndCancel(ctx context.Context, id string) error {
	rec, ok := tc.DisplayedRecord(id)
	if !ok {
		return fmt.Errorf("record %s is not on the dashboard", id)
	}
	tc.Dashboard.OpenEdit(rec)
	tc.Dashboard.CloseModal()
	return nil
}

func (tc *TestContext) deleteRecord(ctx context.Context, id, answer string) error {
	rec, ok := tc.DisplayedRecord(id)
	if !ok {
		rec = records.Record{ID: id}
	}
	tc.confirmYes = answer == "confirm"
	tc.LastErr = tc.Dashboard.Delete(ctx, rec)
	return nil
}

func (tc *TestContext) get(ctx context.Context, path string) error {
	return tc.GET(path)
}

func (tc *TestContext) postWithBody(ctx context.Context, path string, body *godog.DocString) error {
	return tc.POST(path, []byte(body.Content))
}

func (tc *TestContext) operationFailsWith(ctx context.Context, message string) error {
	if tc.LastErr == nil {
		return errors.New("expected the operation to fail")
	}
	if got := client.UserMessage(tc.LastErr); got != message {
		return fmt.Errorf("expected error %q but got %q", message, got)
	}
	return nil
}

func (tc *TestContext) operationSucceeds(ctx context.Context) error {
	if tc.LastErr != nil {
		return fmt.Errorf("unexpected error: %w", tc.LastErr)
	}
	return nil
}

func (tc *TestContext) dashboardShowsCount(ctx context.Context, n int) error {
	if got := len(tc.Dashboard.Snapshot().Records); got != n {
		return fmt.Errorf("expected %d records on the dashboard but got %d", n, got)
	}
	return nil
}

func (tc *TestContext) dashboardShowsRecord(ctx context.Context, id, name string) error {
	rec, ok := tc.DisplayedRecord(id)
	if !ok {
		return fmt.Errorf("record %s is not on the dashboard", id)
	}
	if rec.Name != name {
		return fmt.Errorf("record %s: expected name %q but got %q", id, name, rec.Name)
	}
	return nil
}

func (tc *TestContext) dashboardShowsFreshRecord(ctx context.Context, name string) error {
	seen := make(map[string]bool)
	for _, r := range tc.Dashboard.Snapshot().Records {
		if seen[r.ID] {
			return fmt.Errorf("duplicate id %s on the dashboard", r.ID)
		}
		seen[r.ID] = true
		if r.Name == name && r.ID != "" {
			return nil
		}
	}
	return fmt.Errorf("no record named %q on the dashboard", name)
}

func (tc *TestContext) backendHoldsCount(ctx context.Context, n int) error {
	if got := len(tc.Backend.Snapshot(tc.t)); got != n {
		return fmt.Errorf("expected %d stored records but got %d", n, got)
	}
	return nil
}

func (tc *TestContext) backendHoldsRecord(ctx context.Context, id, name string) error {
	for _, r := range tc.Backend.Snapshot(tc.t) {
		if r.ID == id {
			if r.Name != name {
				return fmt.Errorf("stored record %s: expected name %q but got %q", id, name, r.Name)
			}
			return nil
		}
	}
	return fmt.Errorf("record %s is not stored", id)
}

func (tc *TestContext) sessionIs(ctx context.Context, state string) error {
	if active := tc.Session.Active(); active != (state == "active") {
		return fmt.Errorf("expected session to be %s", state)
	}
	return nil
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse == nil {
		return errors.New("no request was made")
	}
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, text string) error {
	if !tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain %q\nResponse: %s", text, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	actual, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if s, ok := actual.(string); ok {
		if s != expectedValue {
			return fmt.Errorf("field %s: expected %s but got %s", field, expectedValue, s)
		}
		return nil
	}
	raw, _ := json.Marshal(actual)
	if strings.TrimSpace(string(raw)) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %s", field, expectedValue, raw)
	}
	return nil
}
