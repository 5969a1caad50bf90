package ckd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/schema", h.GetSchema)
	api.GET("/model", h.GetModel)
	api.POST("/predictions", h.CreatePrediction)
}

func (h *Handler) GetSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"fields":    Schema(),
		"threshold": Threshold,
	})
}

func (h *Handler) GetModel(c echo.Context) error {
	info, err := h.svc.ModelInfo()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "model not loaded")
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handler) CreatePrediction(c echo.Context) error {
	if !h.svc.Available() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "model not loaded, prediction cannot be done")
	}

	var body map[string]interface{}
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(&body); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body: unexpected data after the record")
	}

	pred, err := h.svc.PredictValues(c.Request().Context(), body)
	if err != nil {
		return predictionError(err)
	}
	return c.JSON(http.StatusCreated, pred)
}

func predictionError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// Left for the timeout middleware and the client disconnect path.
		return err
	case errors.Is(err, classifier.ErrArtifactUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "model not loaded, prediction cannot be done")
	case errors.Is(err, classifier.ErrScoring):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Prediction error: "+err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
