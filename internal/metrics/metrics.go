// Package metrics counts the outcomes of a run for Prometheus.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jaki95/discogs-scraper/internal/domain"
)

const namespace = "discogs"

// Result label values.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Recorder holds the run's collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	artists  *prometheus.CounterVec
	albums   *prometheus.CounterVec
	tracks   prometheus.Counter
	duration prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		artists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artists_total",
			Help:      "Artists processed, by result.",
		}, []string{"result"}),
		albums: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "albums_total",
			Help:      "Albums processed, by result.",
		}, []string{"result"}),
		tracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracks_total",
			Help:      "Tracks extracted from kept albums.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	r.registry.MustRegister(r.artists, r.albums, r.tracks, r.duration)
	return r
}

// ObserveArtist records one artist outcome.
func (r *Recorder) ObserveArtist(artist *domain.Artist, err error) {
	if err != nil || artist == nil {
		r.artists.WithLabelValues(ResultFailed).Inc()
		return
	}
	r.artists.WithLabelValues(ResultOK).Inc()
	r.tracks.Add(float64(artist.TrackCount()))
}

// ObserveAlbum records one album outcome. Its signature matches the
// extractor's album hook.
func (r *Recorder) ObserveAlbum(_ string, err error) {
	if err != nil {
		r.albums.WithLabelValues(ResultDropped).Inc()
		return
	}
	r.albums.WithLabelValues(ResultOK).Inc()
}

// ObserveRun records the run's wall time.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.duration.Set(d.Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format,
// for node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
