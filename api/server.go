package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matt-g-everett/ledclip/clip"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Scene is what the Api needs to know about a playable scene.
type Scene interface {
	Name() string
	Loop() time.Duration
	Compiled() *clip.Compiled
	Fields() clip.Registry
}

// Api serves the client pages and lets them inspect compiled scenes.
type Api struct {
	scenes map[string]Scene
	order  []string
	static string
	logger zerolog.Logger
}

// NewApi creates an instance of an Api.
func NewApi(scenes []Scene, static string, logger zerolog.Logger) *Api {
	a := new(Api)
	a.scenes = make(map[string]Scene, len(scenes))
	for _, s := range scenes {
		a.scenes[s.Name()] = s
		a.order = append(a.order, s.Name())
	}
	a.static = static
	a.logger = logger
	return a
}

// Router builds the HTTP handler.
func (a *Api) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler)

	r.Get("/api/curves", a.listCurves)
	r.Route("/api/scenes", func(r chi.Router) {
		r.Get("/", a.listScenes)
		r.Get("/{scene}", a.getScene)
		r.Get("/{scene}/objects/{object}/fields/{field}", a.evaluateField)
	})

	if a.static != "" {
		r.Handle("/*", http.FileServer(http.Dir(a.static)))
	}

	return r
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info().Str("addr", addr).Msg("listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type sceneSummary struct {
	Name    string   `json:"name"`
	Length  float64  `json:"length"`
	Loop    string   `json:"loop"`
	Objects []string `json:"objects"`
}

type sceneDetail struct {
	sceneSummary
	Keyframes map[string]*clip.Object `json:"keyframes"`
}

type fieldValue struct {
	Progress float64    `json:"progress"`
	Active   bool       `json:"active"`
	Value    clip.Value `json:"value"`
}

func summarise(s Scene) sceneSummary {
	c := s.Compiled()
	return sceneSummary{
		Name:    s.Name(),
		Length:  c.Length,
		Loop:    s.Loop().String(),
		Objects: c.Objects,
	}
}

func (a *Api) listScenes(w http.ResponseWriter, r *http.Request) {
	summaries := make([]sceneSummary, 0, len(a.order))
	for _, name := range a.order {
		summaries = append(summaries, summarise(a.scenes[name]))
	}
	a.writeJSON(w, http.StatusOK, summaries)
}

func (a *Api) listCurves(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, clip.Interpolations())
}

func (a *Api) getScene(w http.ResponseWriter, r *http.Request) {
	s, ok := a.scenes[chi.URLParam(r, "scene")]
	if !ok {
		http.Error(w, "no such scene", http.StatusNotFound)
		return
	}

	a.writeJSON(w, http.StatusOK, sceneDetail{
		sceneSummary: summarise(s),
		Keyframes:    s.Compiled().Keyframes,
	})
}

func (a *Api) evaluateField(w http.ResponseWriter, r *http.Request) {
	s, ok := a.scenes[chi.URLParam(r, "scene")]
	if !ok {
		http.Error(w, "no such scene", http.StatusNotFound)
		return
	}
	obj := s.Compiled().Object(chi.URLParam(r, "object"))
	if obj == nil {
		http.Error(w, "no such object", http.StatusNotFound)
		return
	}
	field := chi.URLParam(r, "field")
	initial, ok := obj.Initial[field]
	ft, registered := s.Fields()[field]
	if !ok || !registered {
		http.Error(w, "no such field", http.StatusNotFound)
		return
	}

	progress := 0.0
	if raw := r.URL.Query().Get("progress"); raw != "" {
		var err error
		progress, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "progress must be a number", http.StatusBadRequest)
			return
		}
	}

	clips := obj.Clips[field]
	_, active := clip.Evaluate(ft, clips, progress)
	a.writeJSON(w, http.StatusOK, fieldValue{
		Progress: progress,
		Active:   active,
		Value:    clip.ValueAt(ft, initial, clips, progress),
	})
}

func (a *Api) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error().Err(err).Msg("failed to write response")
	}
}
