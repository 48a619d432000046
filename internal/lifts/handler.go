package lifts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=lifts_test

type liftsService interface {
	Exercises(ctx context.Context) ([]string, error)
	Anatomy(ctx context.Context) (Anatomy, error)
	Predict(ctx context.Context, exercise string) (*Prediction, error)
	AddEntry(ctx context.Context, date time.Time, exercise string, weight float64, reps int) (Entry, error)
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}

// RouteWrapper decorates a single named route, e.g. with a rate limit.
type RouteWrapper func(routeName string, next http.Handler) http.Handler

type SettingsRequest struct {
	Bodyweight Number `json:"bodyweight"`
}

type SettingsResponse struct {
	Message    string  `json:"message"`
	Bodyweight float64 `json:"bodyweight"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PredictRequest struct {
	Exercise string `json:"exercise"`
}

type AddRequest struct {
	Date     string `json:"date"`
	Exercise string `json:"exercise"`
	Weight   Number `json:"weight"`
	Reps     Number `json:"reps"`
}

type AddResponse struct {
	Message string `json:"message"`
	NewPR   int    `json:"new_pr"`
}

// user facing texts for the domain errors
var errorMessages = map[error]string{
	ErrNoData:          "Upload data first!",
	ErrNotEnoughData:   "Not enough data (min 2 sessions)",
	ErrInvalidCSV:      "Invalid format or empty file",
	ErrInvalidSettings: "Invalid",
	ErrInvalidEntry:    "Invalid entry",
}

func errorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

type Handler struct {
	service       liftsService
	maxUploadSize int64
}

func NewHandler(service liftsService, maxUploadSizeMB int64) *Handler {
	return &Handler{
		service:       service,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, limitMutations RouteWrapper) {
	if limitMutations == nil {
		limitMutations = func(_ string, next http.Handler) http.Handler { return next }
	}

	router.HandleFunc("/exercises", handler.HandleExercises).Methods("GET", "OPTIONS").Name("exercises")
	router.HandleFunc("/anatomy", handler.HandleAnatomy).Methods("GET", "OPTIONS").Name("anatomy")
	router.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("get-settings")
	router.HandleFunc("/settings", handler.HandleSaveSettings).Methods("POST").Name("save-settings")
	router.HandleFunc("/predict", handler.HandlePredict).Methods("POST", "OPTIONS").Name("predict")
	router.Handle("/upload", limitMutations("upload", http.HandlerFunc(handler.HandleUpload))).Methods("POST", "OPTIONS").Name("upload")
	router.Handle("/add", limitMutations("add", http.HandlerFunc(handler.HandleAdd))).Methods("POST", "OPTIONS").Name("add")
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	names, err := handler.service.Exercises(r.Context())
	if err != nil {
		log.Errorf("get exercises: %s", err)
		pkg.WriteJSONError(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	pkg.WriteJSON(w, names, http.StatusOK)
}

func (handler *Handler) HandleAnatomy(w http.ResponseWriter, r *http.Request) {
	anatomy, err := handler.service.Anatomy(r.Context())
	if errors.Is(err, ErrNoData) {
		pkg.WriteJSON(w, struct{}{}, http.StatusOK)
		return
	}
	if err != nil {
		log.Errorf("get anatomy: %s", err)
		pkg.WriteJSONError(w, "failed to get anatomy", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, anatomy, http.StatusOK)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := handler.service.Settings(r.Context())
	if err != nil {
		log.Errorf("get settings: %s", err)
		pkg.WriteJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, settings, http.StatusOK)
}

func (handler *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("save settings, decode request: %s", err)
		pkg.WriteJSONError(w, errorMessages[ErrInvalidSettings], http.StatusBadRequest)
		return
	}

	settings := Settings{Bodyweight: req.Bodyweight.Float()}
	if err := handler.service.SaveSettings(r.Context(), settings); err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			pkg.WriteJSONError(w, errorMessages[ErrInvalidSettings], http.StatusBadRequest)
			return
		}
		log.Errorf("save settings: %s", err)
		pkg.WriteJSONError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, SettingsResponse{
		Message:    "Saved",
		Bodyweight: settings.Bodyweight,
	}, http.StatusOK)
}

// HandlePredict answers domain errors (no data, too few sessions) with 200
// and an error body, like the rest of the dashboard API does.
func (handler *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid request", http.StatusBadRequest)
		return
	}

	prediction, err := handler.service.Predict(r.Context(), req.Exercise)
	if errors.Is(err, ErrNoData) || errors.Is(err, ErrNotEnoughData) {
		pkg.WriteJSONError(w, errorMessage(err), http.StatusOK)
		return
	}
	if err != nil {
		log.Errorf("predict [%s]: %s", req.Exercise, err)
		pkg.WriteJSONError(w, errorMessage(err), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, prediction, http.StatusOK)
}

func (handler *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, handler.maxUploadSize)
	if err := r.ParseMultipartForm(handler.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			pkg.WriteJSONError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			log.Debugf("upload, parse multipart form: %s", err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.WriteJSONError(w, "No file", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("close uploaded file: %s", err)
		}
	}()

	imported, err := handler.service.ImportCSV(r.Context(), file)
	if errors.Is(err, ErrInvalidCSV) {
		log.Debugf("upload [%s]: %s", header.Filename, err)
		pkg.WriteJSONError(w, errorMessage(err), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("upload [%s]: %s", header.Filename, err)
		pkg.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Infof("upload [%s]: %d entries imported", header.Filename, imported)
	pkg.WriteJSON(w, MessageResponse{Message: "Success! Data Updated."}, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		pkg.WriteJSONError(w, "invalid date: "+req.Date, http.StatusInternalServerError)
		return
	}
	reps, err := req.Reps.Int()
	if err != nil {
		pkg.WriteJSONError(w, "invalid reps: "+err.Error(), http.StatusInternalServerError)
		return
	}

	entry, err := handler.service.AddEntry(r.Context(), date, req.Exercise, req.Weight.Float(), reps)
	if err != nil {
		log.Errorf("add entry [%s]: %s", req.Exercise, err)
		pkg.WriteJSONError(w, errorMessage(err), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, AddResponse{
		Message: "Success",
		NewPR:   int(entry.E1RM),
	}, http.StatusOK)
}
