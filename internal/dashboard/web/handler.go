package web

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"

	"github.com/2beens/gymdash/internal/dashboard"
	"github.com/2beens/gymdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:embed page.html
var pageTemplate string

const uploadFormField = "csvFile"

type dashboardOps interface {
	Initialize(ctx context.Context) error
	SaveWeight(ctx context.Context) error
	UploadData(ctx context.Context, file *dashboard.UploadFile) error
	SelectExercise(ctx context.Context, name string) error
	SubmitData(ctx context.Context) error
	SetBodyWeightInput(value string)
	SetEntryInputs(date, exercise, weight, reps string)
}

type chartSource interface {
	SVG(canvas string) ([]byte, bool)
}

type elementIDs struct {
	InputDate        string
	BodyWeight       string
	ExerciseSelector string
	InputExercise    string
	InputWeight      string
	InputReps        string
	UploadStatus     string
	CurrentPR        string
	TargetPR         string
	UserRank         string
	RecHeavy         string
	RecHyper         string
	GainsChart       string
	AnatomyChart     string
}

var pageIDs = elementIDs{
	InputDate:        dashboard.ElemInputDate,
	BodyWeight:       dashboard.ElemBodyWeight,
	ExerciseSelector: dashboard.ElemExerciseSelector,
	InputExercise:    dashboard.ElemInputExercise,
	InputWeight:      dashboard.ElemInputWeight,
	InputReps:        dashboard.ElemInputReps,
	UploadStatus:     dashboard.ElemUploadStatus,
	CurrentPR:        dashboard.ElemCurrentPR,
	TargetPR:         dashboard.ElemTargetPR,
	UserRank:         dashboard.ElemUserRank,
	RecHeavy:         dashboard.ElemRecHeavy,
	RecHyper:         dashboard.ElemRecHyper,
	GainsChart:       dashboard.CanvasGains,
	AnatomyChart:     dashboard.CanvasAnatomy,
}

type pageData struct {
	IDs              elementIDs
	Alerts           []string
	ExerciseOptions  []dashboard.Option
	SelectedExercise string
	InputOptions     []dashboard.Option
	InputExercise    string
	InputDate        string
	InputWeight      string
	InputReps        string
	BodyWeight       string
	UploadStatus     string
	CurrentPR        string
	TargetPR         string
	UserRank         string
	RecHeavy         string
	RecHyper         string
	HasGainsChart    bool
	HasAnatomyChart  bool
	Revision         uint64
}

// Handler serves the dashboard page and turns form posts into dashboard
// operations, redirecting back to the page afterwards.
type Handler struct {
	dash            dashboardOps
	view            *dashboard.MemoryView
	charts          chartSource
	template        *template.Template
	maxUploadSizeMB int64
	revision        atomic.Uint64
}

func NewHandler(
	dash dashboardOps,
	view *dashboard.MemoryView,
	charts chartSource,
	maxUploadSizeMB int64,
) *Handler {
	return &Handler{
		dash:            dash,
		view:            view,
		charts:          charts,
		template:        template.Must(template.New("page").Parse(pageTemplate)),
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", h.handlePage).Methods("GET").Name("page")
	router.HandleFunc("/charts/{canvas}.svg", h.handleChart).Methods("GET").Name("chart")
	router.HandleFunc("/weight", h.handleWeight).Methods("POST").Name("weight")
	router.HandleFunc("/upload", h.handleUpload).Methods("POST").Name("upload")
	router.HandleFunc("/select", h.handleSelect).Methods("POST").Name("select")
	router.HandleFunc("/submit", h.handleSubmit).Methods("POST").Name("submit")
	router.HandleFunc("/refresh", h.handleRefresh).Methods("POST").Name("refresh")
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := h.view.Snapshot()
	_, hasGains := h.charts.SVG(dashboard.CanvasGains)
	_, hasAnatomy := h.charts.SVG(dashboard.CanvasAnatomy)

	data := pageData{
		IDs:              pageIDs,
		Alerts:           h.view.TakeAlerts(),
		ExerciseOptions:  snap.Options[dashboard.ElemExerciseSelector],
		SelectedExercise: snap.Values[dashboard.ElemExerciseSelector],
		InputOptions:     snap.Options[dashboard.ElemInputExercise],
		InputExercise:    snap.Values[dashboard.ElemInputExercise],
		InputDate:        snap.Values[dashboard.ElemInputDate],
		InputWeight:      snap.Values[dashboard.ElemInputWeight],
		InputReps:        snap.Values[dashboard.ElemInputReps],
		BodyWeight:       snap.Values[dashboard.ElemBodyWeight],
		UploadStatus:     snap.Texts[dashboard.ElemUploadStatus],
		CurrentPR:        snap.Texts[dashboard.ElemCurrentPR],
		TargetPR:         snap.Texts[dashboard.ElemTargetPR],
		UserRank:         snap.Texts[dashboard.ElemUserRank],
		RecHeavy:         snap.Texts[dashboard.ElemRecHeavy],
		RecHyper:         snap.Texts[dashboard.ElemRecHyper],
		HasGainsChart:    hasGains,
		HasAnatomyChart:  hasAnatomy,
		Revision:         h.revision.Load(),
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		log.Errorf("render dashboard page: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, buf.Bytes())
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	canvas := mux.Vars(r)["canvas"]
	svg, ok := h.charts.SVG(canvas)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.SVG, svg)
}

func (h *Handler) handleWeight(w http.ResponseWriter, r *http.Request) {
	h.dash.SetBodyWeightInput(r.FormValue("bodyweight"))
	h.done(w, r, "save weight", h.dash.SaveWeight(r.Context()))
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSizeMB<<20)
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			pkg.WriteResponse(w, pkg.ContentType.Text, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		// no file chosen
		log.Tracef("upload: %s", err)
		h.done(w, r, "upload", h.dash.UploadData(r.Context(), nil))
		return
	}
	defer file.Close()

	h.done(w, r, "upload", h.dash.UploadData(r.Context(), &dashboard.UploadFile{
		Name:    header.Filename,
		Content: file,
	}))
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	h.done(w, r, "select exercise", h.dash.SelectExercise(r.Context(), r.FormValue("exercise")))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.dash.SetEntryInputs(
		r.FormValue("date"),
		r.FormValue("exercise"),
		r.FormValue("weight"),
		r.FormValue("reps"),
	)
	h.done(w, r, "submit entry", h.dash.SubmitData(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.done(w, r, "refresh", h.dash.Initialize(r.Context()))
}

// done redirects back to the page; errors were already presented as alerts.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, action string, err error) {
	if err != nil {
		log.Debugf("%s: %s", action, err)
	}
	h.revision.Add(1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

