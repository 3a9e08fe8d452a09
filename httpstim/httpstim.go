// Package httpstim wraps a stimulus pipeline in an HTTP interface so
// bench tooling in any language can drive the simulation with a few
// JSON requests.
package httpstim

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi"
)

// FloatT is the json body {"f64": <value>}.
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT is the json body {"int": <value>}.
type IntT struct {
	Int int `json:"int"`
}

// BoolT is the json body {"bool": <value>}.
type BoolT struct {
	Bool bool `json:"bool"`
}

// MethodPath is one route: an HTTP method and a path below the mount
// point.
type MethodPath struct {
	Method string
	Path   string
}

// RouteTable maps routes to their handlers.
type RouteTable map[MethodPath]http.HandlerFunc

// Bind attaches every route in the table to r.
func (rt RouteTable) Bind(r chi.Router) {
	for mp, handler := range rt {
		r.Method(mp.Method, mp.Path, handler)
	}
	r.Get("/endpoints", rt.listEndpoints)
}

// Endpoints returns the routes in the table, sorted for stable
// output.
func (rt RouteTable) Endpoints() []string {
	out := make([]string, 0, len(rt))
	for mp := range rt {
		out = append(out, mp.Method+" "+mp.Path)
	}
	sort.Strings(out)
	return out
}

func (rt RouteTable) listEndpoints(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rt.Endpoints())
}

// GetFloat wraps a float getter in a handler replying {"f64": v}.
func GetFloat(fcn func() (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FloatT{F64: f})
	}
}

// SetFloat wraps a float setter in a handler consuming {"f64": v}.
func SetFloat(fcn func(float64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f FloatT
		err := json.NewDecoder(r.Body).Decode(&f)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(f.F64); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// SetInt wraps an int setter in a handler consuming {"int": v}.
func SetInt(fcn func(int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var i IntT
		err := json.NewDecoder(r.Body).Decode(&i)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(i.Int); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetJSON wraps a value getter in a handler replying with the value
// as json.
func GetJSON(fcn func() (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}
