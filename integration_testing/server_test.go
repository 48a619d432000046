//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymdash/internal/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *Suite

const liftsCSV = `Title,Date,Weight,Reps,Set Type
Bench Press (Barbell),2024-03-04 18:00:00,70,8,NORMAL_SET
Bench Press (Barbell),2024-03-11 18:00:00,72.5,8,NORMAL_SET
Bench Press (Barbell),2024-03-18 18:00:00,75,6,NORMAL_SET
Squat (Barbell),2024-03-05 18:00:00,100,5,NORMAL_SET
Squat (Barbell),2024-03-12 18:00:00,105,5,NORMAL_SET
Lat Pulldown (Cable),2024-03-06 18:00:00,55,10,NORMAL_SET
Old Bench,2023-12-01 18:00:00,60,8,NORMAL_SET
`

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	suite = newSuite(ctx)

	code := m.Run()

	cancel()
	suite.cleanup()
	os.Exit(code)
}

func newDashboard(apiToken string) (*dashboard.Dashboard, *dashboard.MemoryView, *dashboard.SVGRenderer) {
	view := dashboard.NewMemoryView()
	renderer := dashboard.NewSVGRenderer(0, 0)
	dash := dashboard.NewDashboard(dashboard.NewDashboardParams{
		Client: dashboard.NewApiClient(dashboard.ClientConfig{
			BaseURL:  serverEndpoint + "/api",
			Timeout:  10 * time.Second,
			ApiToken: apiToken,
		}),
		View:     view,
		Renderer: renderer,
	})
	return dash, view, renderer
}

func TestHealth(t *testing.T) {
	resp, err := http.Get(serverEndpoint + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "test-version-info", body["version"])
}

func TestDashboardSession(t *testing.T) {
	ctx := context.Background()
	dash, view, renderer := newDashboard(testApiToken)

	require.NoError(t, dash.Initialize(ctx))
	assert.Equal(t, []dashboard.Option{{Label: dashboard.MsgNoExercises}}, view.Options(dashboard.ElemExerciseSelector))
	assert.Equal(t, "65", view.Value(dashboard.ElemBodyWeight))
	assert.Equal(t, 0, renderer.LiveCharts())

	err := dash.UploadData(ctx, &dashboard.UploadFile{Name: "lifts.csv", Content: strings.NewReader(liftsCSV)})
	require.NoError(t, err)
	assert.Equal(t, dashboard.StatusReady, view.Text(dashboard.ElemUploadStatus))
	assert.Equal(t, []string{dashboard.MsgUploadDone}, view.TakeAlerts())
	assert.Equal(t, []dashboard.Option{
		{Value: "Bench Press (Barbell)", Label: "Bench Press (Barbell)"},
		{Value: "Lat Pulldown (Cable)", Label: "Lat Pulldown (Cable)"},
		{Value: "Squat (Barbell)", Label: "Squat (Barbell)"},
	}, view.Options(dashboard.ElemExerciseSelector))
	assert.Equal(t, "91 kg", view.Text(dashboard.ElemCurrentPR))
	assert.Equal(t, 2, renderer.LiveCharts())

	// a single session is not enough for a prediction; the previous display stays
	require.Error(t, dash.SelectExercise(ctx, "Lat Pulldown (Cable)"))
	assert.Empty(t, view.TakeAlerts())
	assert.Equal(t, "91 kg", view.Text(dashboard.ElemCurrentPR))

	require.NoError(t, dash.SelectExercise(ctx, "Squat (Barbell)"))
	assert.Equal(t, "122 kg", view.Text(dashboard.ElemCurrentPR))
	assert.Equal(t, "Squat (Barbell)", view.Value(dashboard.ElemInputExercise))

	dash.SetBodyWeightInput("120")
	require.NoError(t, dash.SaveWeight(ctx))
	assert.Equal(t, []string{dashboard.MsgWeightSaved}, view.TakeAlerts())
	assert.Equal(t, "INTERMEDIATE", view.Text(dashboard.ElemUserRank))

	dash.SetEntryInputs("2024-03-19", "Squat (Barbell)", "120", "3")
	require.NoError(t, dash.SubmitData(ctx))
	assert.Equal(t, []string{"Entry saved! New 1RM: 132 kg"}, view.TakeAlerts())
	assert.Equal(t, "132 kg", view.Text(dashboard.ElemCurrentPR))
	assert.Empty(t, view.Value(dashboard.ElemInputWeight))

	var entries int
	require.NoError(t, suite.DB.QueryRow(`SELECT count(*) FROM lifts.entry`).Scan(&entries))
	assert.Equal(t, 7, entries)
}

func TestMutationsNeedToken(t *testing.T) {
	ctx := context.Background()
	client := dashboard.NewApiClient(dashboard.ClientConfig{
		BaseURL:  serverEndpoint + "/api",
		Timeout:  10 * time.Second,
		ApiToken: "wrong-token",
	})

	_, err := client.SaveSettings(ctx, "80")
	var serverErr *dashboard.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)

	// reads stay open
	_, err = client.Exercises(ctx)
	require.NoError(t, err)
}
