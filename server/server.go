// Package server exposes a board document store over a JSONBin-compatible
// HTTP API, so a board can persist to a self-hosted endpoint.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/phanxgames/pinboard/gateway"
)

// ErrUnauthorized is the error returned for a missing or wrong master key.
var ErrUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "invalid "+gateway.MasterKeyHeader)

const maxDocumentSize = 4 << 20

// Options configures the document server.
type Options struct {
	// MasterKey, when set, must accompany every bin request.
	MasterKey string
	Logger    *log.Logger
}

type envelope struct {
	Record   json.RawMessage `json:"record"`
	Metadata metadata        `json:"metadata"`
}

type metadata struct {
	ID       string `json:"id,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	Private  bool   `json:"private"`
}

// New returns an echo app serving store.
func New(store gateway.Store, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, gateway.MasterKeyHeader},
	}))
	Register(e, store, opts)
	return e
}

// Register mounts the document routes on e.
//
//	GET /healthz
//	GET /v3/b/:bin/latest  -> {"record": <doc>, "metadata": {...}}
//	GET /v3/b/:bin         -> <doc>
//	PUT /v3/b/:bin         <- <doc>
func Register(e *echo.Echo, store gateway.Store, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	e.GET("/healthz", healthz())

	g := e.Group("/v3/b", requestLogger(logger), requireKey(opts.MasterKey))
	g.GET("/:bin/latest", getLatest(store))
	g.GET("/:bin", getBin(store))
	g.PUT("/:bin", putBin(store, logger))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func requireKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}
			got := c.Request().Header.Get(gateway.MasterKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return ErrUnauthorized
			}
			return next(c)
		}
	}
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.WithFields(log.Fields{
				"method":   c.Request().Method,
				"path":     c.Path(),
				"bin":      c.Param("bin"),
				"status":   c.Response().Status,
				"duration": time.Since(start),
			}).Debug("request")
			return nil
		}
	}
}

func load(c echo.Context, store gateway.Store) ([]byte, error) {
	doc, err := store.Get(c.Request().Context(), c.Param("bin"))
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "bin not found")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "read bin").SetInternal(err)
	}
	return doc, nil
}

func getLatest(store gateway.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := load(c, store)
		if err != nil {
			return err
		}
		return writeEnvelope(c, envelope{
			Record:   doc,
			Metadata: metadata{ID: c.Param("bin"), Private: true},
		})
	}
}

func getBin(store gateway.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := load(c, store)
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, doc)
	}
}

func putBin(store gateway.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentSize+1))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "read body")
		}
		if len(body) > maxDocumentSize {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "document too large")
		}
		if _, err := gateway.DecodeSnapshot(body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid board document")
		}
		bin := c.Param("bin")
		if err := store.Put(c.Request().Context(), bin, body); err != nil {
			logger.WithError(err).WithField("bin", bin).Error("write bin failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "write bin").SetInternal(err)
		}
		return writeEnvelope(c, envelope{
			Record:   body,
			Metadata: metadata{ParentID: bin, Private: true},
		})
	}
}

func writeEnvelope(c echo.Context, env envelope) error {
	data, err := sonic.ConfigStd.Marshal(env)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}
