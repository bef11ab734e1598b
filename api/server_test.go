package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/matt-g-everett/ledclip/clip"
	"github.com/rs/zerolog"
)

type testScene struct {
	compiled *clip.Compiled
}

func (testScene) Name() string               { return "lamp" }
func (testScene) Loop() time.Duration        { return 4 * time.Second }
func (s testScene) Compiled() *clip.Compiled { return s.compiled }
func (testScene) Fields() clip.Registry      { return testFields }

var testFields = clip.Registry{"brightness": clip.NumberField}

func TestListScenes(t *testing.T) {
	is, server := setupApiTest(t)
	defer server.Close()

	var body []sceneSummary
	resp := get(is, server.URL+"/api/scenes", &body)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(len(body), 1)
	is.Equal(body[0].Name, "lamp")
	is.Equal(body[0].Length, 2.0)
	is.Equal(body[0].Loop, "4s")
	is.Equal(body[0].Objects, []string{"lamp"})
}

func TestListCurves(t *testing.T) {
	is, server := setupApiTest(t)
	defer server.Close()

	var body []clip.Interpolation
	resp := get(is, server.URL+"/api/curves", &body)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, clip.Interpolations())
	is.Equal(body[0], clip.Interpolation("ease-in")) // sorted by name
}

func TestGetScene(t *testing.T) {
	is, server := setupApiTest(t)
	defer server.Close()

	var body struct {
		Name      string `json:"name"`
		Keyframes map[string]struct {
			Clips map[string][]struct {
				Start  clip.Point      `json:"start"`
				End    clip.Point      `json:"end"`
				Config clip.ClipConfig `json:"config"`
			} `json:"clips"`
		} `json:"keyframes"`
	}
	resp := get(is, server.URL+"/api/scenes/lamp", &body)
	is.Equal(resp.StatusCode, http.StatusOK)

	clips := body.Keyframes["lamp"].Clips["brightness"]
	is.Equal(len(clips), 1)
	is.Equal(clips[0].Start.Time, 1.0)
	is.Equal(clips[0].End.Value, 1.0)
	is.Equal(clips[0].Config.Interpolation, clip.Linear)
}

func TestEvaluateField(t *testing.T) {
	is, server := setupApiTest(t)
	defer server.Close()

	var body fieldValue
	resp := get(is, server.URL+"/api/scenes/lamp/objects/lamp/fields/brightness?progress=1.5", &body)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(body.Active)
	is.Equal(body.Value, 0.5)

	resp = get(is, server.URL+"/api/scenes/lamp/objects/lamp/fields/brightness?progress=0.5", &body)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(!body.Active) // before the inherit point nothing is active
	is.Equal(body.Value, 0.0)
}

func TestEvaluateFieldErrors(t *testing.T) {
	is, server := setupApiTest(t)
	defer server.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/api/scenes/bed", http.StatusNotFound},
		{"/api/scenes/lamp/objects/bed/fields/brightness", http.StatusNotFound},
		{"/api/scenes/lamp/objects/lamp/fields/colour", http.StatusNotFound},
		{"/api/scenes/lamp/objects/lamp/fields/brightness?progress=soon", http.StatusBadRequest},
	}

	for _, tt := range tests {
		resp, err := http.Get(server.URL + tt.path)
		is.NoErr(err)
		resp.Body.Close()
		is.Equal(resp.StatusCode, tt.status) // unexpected status code
	}
}

func setupApiTest(t *testing.T) (*is.I, *httptest.Server) {
	is := is.New(t)

	compiled, err := clip.Compile(testFields,
		clip.BaseStates{"lamp": {"brightness": 0.0}},
		clip.Declarations{"lamp": {
			1: {"brightness": clip.Inherit{}},
			2: {"brightness": clip.State(1.0, clip.Linear)},
		}},
		clip.DefaultConfig)
	is.NoErr(err)

	a := NewApi([]Scene{testScene{compiled: compiled}}, "", zerolog.Nop())
	return is, httptest.NewServer(a.Router())
}

func get(is *is.I, url string, body interface{}) *http.Response {
	resp, err := http.Get(url)
	is.NoErr(err)
	defer resp.Body.Close()

	is.NoErr(json.NewDecoder(resp.Body).Decode(body))
	return resp
}
