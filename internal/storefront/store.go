// Package storefront is the fruit store form demo: a checkbox list of fruits
// and a checkout page that echoes the selection.
package storefront

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/climate-viz/internal/observability"
)

// NoSelection is shown when the checkout form is submitted empty.
const NoSelection = "No fruits selected."

// Template is the page template rendered by both handlers.
const Template = "fruits.html"

// Store serves the fruit list and checkout.
type Store struct {
	title   string
	fruits  []string
	metrics *observability.Metrics
}

// New creates a Store selling fruits.
func New(title string, fruits []string, metrics *observability.Metrics) *Store {
	return &Store{title: title, fruits: fruits, metrics: metrics}
}

func (s *Store) Title() string { return s.title }

func (s *Store) Fruits() []string { return s.fruits }

// Basket returns the submitted fruits as sent, in form order, or a single
// NoSelection line when nothing was checked.
func Basket(selected []string) []string {
	if len(selected) == 0 {
		return []string{NoSelection}
	}
	return slices.Clone(selected)
}

// Register mounts the store routes. checkout runs before the POST handler.
func (s *Store) Register(r gin.IRoutes, checkout ...gin.HandlerFunc) {
	r.GET("/", s.index)
	r.GET("/checkout", redirectHome)
	r.POST("/checkout", append(checkout, s.checkout)...)
}

func (s *Store) index(c *gin.Context) {
	c.HTML(http.StatusOK, Template, gin.H{
		"Title":  s.title,
		"Fruits": s.fruits,
	})
}

func (s *Store) checkout(c *gin.Context) {
	basket := Basket(c.PostFormArray("fruit"))

	outcome := "selected"
	if basket[0] == NoSelection {
		outcome = "empty"
	}
	s.metrics.Checkouts.WithLabelValues(outcome).Inc()

	c.HTML(http.StatusOK, Template, gin.H{
		"Title":     s.title,
		"Selection": basket,
	})
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
