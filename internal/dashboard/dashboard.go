package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=dashboard_mocks_test.go -package=dashboard_test

type apiClient interface {
	Exercises(ctx context.Context) ([]string, error)
	Settings(ctx context.Context) (BodyWeightSetting, error)
	SaveSettings(ctx context.Context, bodyweight string) (string, error)
	Upload(ctx context.Context, fileName string, content io.Reader) (string, error)
	Predict(ctx context.Context, exercise string) (*PredictionResult, error)
	Anatomy(ctx context.Context) (AnatomyDistribution, error)
	Add(ctx context.Context, req AddRequest) (AddResult, error)
}

const (
	MsgNoExercises   = "Upload data first!"
	MsgWeightSaved   = "Body weight saved! Rank updated."
	MsgUploadDone    = "Data uploaded!"
	MsgServerError   = "Server error"
	MsgFillDataFirst = "Fill in the data first!"
	MsgEntryAddedFmt = "Entry saved! New 1RM: %d kg"

	StatusProcessing = "Processing..."
	StatusError      = "Error"
	StatusReady      = "Ready"

	addSuccessMessage = "Success"
	inputDateLayout   = "2006-01-02"
)

type UploadFile struct {
	Name    string
	Content io.Reader
}

type NewDashboardParams struct {
	Client   apiClient
	View     View
	Renderer Renderer
	// Now defaults to time.Now
	Now func() time.Time
}

// Dashboard drives one page session: it reads inputs from the View, talks
// to the api, and writes results and charts back.
type Dashboard struct {
	client   apiClient
	view     View
	renderer Renderer
	now      func() time.Time

	// guards the view writes and the chart handles, never held across api calls
	mu           sync.Mutex
	gainsChart   Chart
	anatomyChart Chart

	updateTicket atomic.Uint64
}

func NewDashboard(params NewDashboardParams) *Dashboard {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Dashboard{
		client:   params.Client,
		view:     params.View,
		renderer: params.Renderer,
		now:      now,
	}
}

func (d *Dashboard) Initialize(ctx context.Context) error {
	d.mu.Lock()
	d.view.SetValue(ElemInputDate, d.now().Format(inputDateLayout))
	d.mu.Unlock()

	if err := d.LoadBodyWeight(ctx); err != nil {
		return err
	}

	exercises, err := d.client.Exercises(ctx)
	if err != nil {
		d.present(fmt.Errorf("get exercises: %w", err))
		return err
	}

	if len(exercises) == 0 {
		d.mu.Lock()
		d.view.SetOptions(ElemExerciseSelector, []Option{{Label: MsgNoExercises}})
		d.view.SetOptions(ElemInputExercise, nil)
		d.mu.Unlock()
		return nil
	}

	options := make([]Option, 0, len(exercises))
	for _, ex := range exercises {
		options = append(options, Option{Value: ex, Label: ex})
	}
	d.mu.Lock()
	d.view.SetOptions(ElemExerciseSelector, options)
	d.view.SetOptions(ElemInputExercise, options)
	d.mu.Unlock()

	// the anatomy chart does not depend on the selected exercise
	if err := d.UpdateData(ctx, exercises[0]); err != nil {
		log.Debugf("initialize: update data: %s", err)
	}
	return d.LoadAnatomy(ctx)
}

func (d *Dashboard) LoadBodyWeight(ctx context.Context) error {
	settings, err := d.client.Settings(ctx)
	if err != nil {
		d.present(fmt.Errorf("get settings: %w", err))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetValue(ElemBodyWeight, strconv.FormatFloat(settings.Bodyweight, 'f', -1, 64))
	return nil
}

// SetBodyWeightInput mirrors the user typing into the body-weight field.
func (d *Dashboard) SetBodyWeightInput(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetValue(ElemBodyWeight, value)
}

func (d *Dashboard) SaveWeight(ctx context.Context) error {
	d.mu.Lock()
	bodyweight := d.view.Value(ElemBodyWeight)
	d.mu.Unlock()
	if bodyweight == "" {
		return nil
	}

	if _, err := d.client.SaveSettings(ctx, bodyweight); err != nil {
		d.present(fmt.Errorf("save settings: %w", err))
		return err
	}

	d.mu.Lock()
	d.view.Alert(MsgWeightSaved)
	selected := d.view.Value(ElemExerciseSelector)
	d.mu.Unlock()

	return d.UpdateData(ctx, selected)
}

func (d *Dashboard) UploadData(ctx context.Context, file *UploadFile) error {
	if file == nil || file.Content == nil {
		return nil
	}

	d.mu.Lock()
	d.view.SetText(ElemUploadStatus, StatusProcessing)
	d.mu.Unlock()

	_, err := d.client.Upload(ctx, file.Name, file.Content)
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			d.mu.Lock()
			d.view.SetText(ElemUploadStatus, StatusError)
			d.mu.Unlock()
		}
		d.present(fmt.Errorf("upload data: %w", err))
		return err
	}

	d.mu.Lock()
	d.view.Alert(MsgUploadDone)
	d.view.SetText(ElemUploadStatus, StatusReady)
	d.mu.Unlock()

	return d.Initialize(ctx)
}

// SelectExercise is the change handler of the exercise selector.
func (d *Dashboard) SelectExercise(ctx context.Context, name string) error {
	d.mu.Lock()
	d.view.SetValue(ElemExerciseSelector, name)
	d.mu.Unlock()
	return d.UpdateData(ctx, name)
}

// UpdateData loads the prediction for the exercise and refreshes the display
// fields and the gains chart. When selections overlap, only the response of
// the latest one is applied.
func (d *Dashboard) UpdateData(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	ticket := d.updateTicket.Add(1)

	data, err := d.client.Predict(ctx, name)
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			log.Debugf("update data [%s]: %s", name, serverErr.Message)
			return err
		}
		d.present(fmt.Errorf("predict [%s]: %w", name, err))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.updateTicket.Load() != ticket {
		log.Tracef("update data [%s]: dropping stale response", name)
		return nil
	}

	d.view.SetText(ElemCurrentPR, fmt.Sprintf("%d kg", data.CurrentPR))
	d.view.SetText(ElemTargetPR, fmt.Sprintf("%d kg", data.NextWeekPR))
	d.view.SetText(ElemUserRank, data.Rank)
	d.view.SetText(ElemRecHeavy, strconv.Itoa(data.Recs.Heavy))
	d.view.SetText(ElemRecHyper, strconv.Itoa(data.Recs.Hyper))
	d.view.SetValue(ElemInputExercise, name)

	gains, err := RenderChart(d.renderer, d.gainsChart, data)
	d.gainsChart = gains
	if err != nil {
		log.Errorf("update data [%s]: %s", name, err)
		return err
	}
	return nil
}

func (d *Dashboard) LoadAnatomy(ctx context.Context) error {
	data, err := d.client.Anatomy(ctx)
	if err != nil {
		d.present(fmt.Errorf("get anatomy: %w", err))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	anatomy, err := RenderAnatomy(d.renderer, d.anatomyChart, data)
	d.anatomyChart = anatomy
	if err != nil {
		log.Errorf("load anatomy: %s", err)
		return err
	}
	return nil
}

// SetEntryInputs mirrors the user filling in the add-entry form.
func (d *Dashboard) SetEntryInputs(date, exercise, weight, reps string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetValue(ElemInputDate, date)
	d.view.SetValue(ElemInputExercise, exercise)
	d.view.SetValue(ElemInputWeight, weight)
	d.view.SetValue(ElemInputReps, reps)
}

func (d *Dashboard) SubmitData(ctx context.Context) error {
	d.mu.Lock()
	req := AddRequest{
		Date:     d.view.Value(ElemInputDate),
		Exercise: d.view.Value(ElemInputExercise),
		Weight:   d.view.Value(ElemInputWeight),
		Reps:     d.view.Value(ElemInputReps),
	}
	if req.Weight == "" {
		d.view.Alert(MsgFillDataFirst)
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	res, err := d.client.Add(ctx, req)
	if err != nil {
		d.present(fmt.Errorf("add entry: %w", err))
		return err
	}
	if res.Message != addSuccessMessage {
		log.Warnf("add entry: unexpected response message: %q", res.Message)
		return nil
	}

	if err := d.UpdateData(ctx, req.Exercise); err != nil {
		log.Debugf("add entry: refresh data: %s", err)
	}
	if err := d.LoadAnatomy(ctx); err != nil {
		log.Debugf("add entry: refresh anatomy: %s", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetValue(ElemInputWeight, "")
	d.view.SetValue(ElemInputReps, "")
	d.view.Alert(fmt.Sprintf(MsgEntryAddedFmt, res.NewPR))
	return nil
}

// present turns an operation error into a user facing alert.
func (d *Dashboard) present(err error) {
	if err == nil {
		return
	}
	log.Errorf("dashboard: %s", err)

	msg := MsgServerError
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		msg = serverErr.Message
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.Alert(msg)
}
