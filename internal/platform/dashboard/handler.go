package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hiraubaid75/ckd-prediction-system/internal/domain/ckd"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

// Handler serves the HTML dashboard.
type Handler struct {
	svc       *ckd.Service
	gallery   *Gallery
	modelPath string
	logger    zerolog.Logger
}

// NewHandler creates the dashboard handler. modelPath is only used to name the
// missing file when the classifier could not be loaded.
func NewHandler(svc *ckd.Service, gallery *Gallery, modelPath string, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		gallery:   gallery,
		modelPath: modelPath,
		logger:    logger.With().Str("component", "dashboard").Logger(),
	}
}

// RegisterRoutes mounts the pages, chart images and stylesheet. The echo
// instance must have a Renderer from NewRenderer.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/", h.Index)
	for _, v := range Views() {
		g.GET(v.Path(), h.handlerFor(v))
	}
	g.POST(ViewPrediction.Path(), h.SubmitPrediction)
	g.GET("/charts/:key", h.GetChart)
	g.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles())))))
}

func (h *Handler) handlerFor(v View) echo.HandlerFunc {
	switch v {
	case ViewPrediction:
		return h.Prediction
	case ViewVisualizations:
		return h.Visualizations
	case ViewAbout:
		return h.About
	default:
		return h.Home
	}
}

// Index serves Home, or the view named by ?view=.
func (h *Handler) Index(c echo.Context) error {
	v, err := ParseView(c.QueryParam("view"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return h.handlerFor(v)(c)
}

func (h *Handler) render(c echo.Context, status int, v View, data interface{}) error {
	return c.Render(status, v.String(), Page{Current: v, Nav: Views(), Data: data})
}

type homeData struct {
	Clinical int
	Fields   int
	Model    *classifier.Info
}

func (h *Handler) Home(c echo.Context) error {
	data := homeData{Clinical: ckd.ClinicalParameterCount(), Fields: len(ckd.Schema())}
	if info, err := h.svc.ModelInfo(); err == nil {
		data.Model = &info
	}
	return h.render(c, http.StatusOK, ViewHome, data)
}

type predictionData struct {
	Unavailable bool
	LoadError   string
	Columns     [2][]Input
	Error       string
	Result      *result
}

type result struct {
	Probability string
	Likely      bool
	Message     string
}

func (h *Handler) Prediction(c echo.Context) error {
	if !h.svc.Available() {
		return h.render(c, http.StatusOK, ViewPrediction, h.unavailableData())
	}
	return h.render(c, http.StatusOK, ViewPrediction, predictionData{
		Columns: buildColumns(ckd.DefaultRecord().Values()),
	})
}

// SubmitPrediction scores the submitted form and re-renders the Prediction
// view with the probability or the reason it could not be computed.
func (h *Handler) SubmitPrediction(c echo.Context) error {
	if !h.svc.Available() {
		return h.render(c, http.StatusServiceUnavailable, ViewPrediction, h.unavailableData())
	}

	form, err := c.FormParams()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	rec, err := ckd.ParseForm(form)
	if err != nil {
		return h.render(c, http.StatusBadRequest, ViewPrediction, predictionData{
			Columns: columnsFromForm(form),
			Error:   "Invalid input: " + err.Error(),
		})
	}

	data := predictionData{Columns: buildColumns(rec.Values())}
	pred, err := h.svc.Predict(c.Request().Context(), rec)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, classifier.ErrArtifactUnavailable) {
			status = http.StatusServiceUnavailable
		}
		data.Error = "Prediction error: " + err.Error()
		return h.render(c, status, ViewPrediction, data)
	}

	data.Result = &result{
		Probability: fmt.Sprintf("%.2f", pred.Probability),
		Likely:      pred.Label == ckd.LabelLikely,
		Message:     pred.Label.Message(),
	}
	return h.render(c, http.StatusOK, ViewPrediction, data)
}

func (h *Handler) unavailableData() predictionData {
	return predictionData{Unavailable: true, LoadError: LoadErrorMessage(h.svc.LoadError(), h.modelPath)}
}

// LoadErrorMessage explains to the user why no classifier is loaded.
func LoadErrorMessage(err error, modelPath string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Model file not found. Please upload '%s' in the app directory.", filepath.Base(modelPath))
	}
	return "Model could not be loaded: " + err.Error()
}

type visualizationsData struct {
	Panels []Panel
}

func (h *Handler) Visualizations(c echo.Context) error {
	return h.render(c, http.StatusOK, ViewVisualizations, visualizationsData{Panels: h.gallery.Panels()})
}

func (h *Handler) About(c echo.Context) error {
	return h.render(c, http.StatusOK, ViewAbout, nil)
}

// GetChart streams a chart image. A missing file is a 404 carrying the
// placeholder text.
func (h *Handler) GetChart(c echo.Context) error {
	ch, ok := h.gallery.Lookup(c.Param("key"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart")
	}

	f, err := os.Open(ch.Path)
	if err != nil {
		h.logger.Debug().Err(err).Str("chart", ch.Key).Msg("chart image unavailable")
		return echo.NewHTTPError(http.StatusNotFound, Panel{Chart: ch}.Placeholder())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return echo.NewHTTPError(http.StatusNotFound, Panel{Chart: ch}.Placeholder())
	}

	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}
