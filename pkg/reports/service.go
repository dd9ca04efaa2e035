package reports

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/de-tools/report-atlas/pkg/metrics"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/session"
	"github.com/de-tools/report-atlas/pkg/upstream"
	"github.com/rs/zerolog"
)

type Info struct {
	Name     string
	Title    string
	Endpoint string
}

type Service interface {
	Reports() []Info
	// Render produces the view of a report. When sess is set, its cache is
	// consulted before fetching and updated after.
	Render(ctx context.Context, sess *session.Session, report string, q url.Values) (*domain.View, error)
}

type Options struct {
	Registry Registry
	Source   upstream.Source
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type service struct {
	registry Registry
	source   upstream.Source
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(opts Options) (Service, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("upstream source is required")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("metrics are required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		registry: opts.Registry,
		source:   opts.Source,
		metrics:  opts.Metrics,
		now:      opts.Now,
	}, nil
}

func (s *service) Reports() []Info {
	drivers := s.registry.List()
	infos := make([]Info, 0, len(drivers))
	for _, d := range drivers {
		infos = append(infos, Info{Name: d.Name(), Title: d.Title(), Endpoint: d.Endpoint()})
	}
	return infos
}

func (s *service) Render(ctx context.Context, sess *session.Session, report string, q url.Values) (*domain.View, error) {
	logger := zerolog.Ctx(ctx).With().Str("report", report).Logger()
	ctx = logger.WithContext(ctx)

	d, ok := s.registry.Get(report)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, report)
	}

	start := time.Now()
	view, err := s.render(ctx, d, sess, q)
	s.metrics.RenderLatency.WithLabelValues(report).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(report, errorKind(err)).Inc()
		logger.Warn().Err(err).Msg("report render failed")
		return nil, err
	}

	s.metrics.Renders.WithLabelValues(report).Inc()
	if view.Dropped > 0 {
		s.metrics.DroppedRecords.WithLabelValues(report).Add(float64(view.Dropped))
		logger.Debug().Int("dropped", view.Dropped).Msg("malformed records dropped")
	}
	return view, nil
}

func (s *service) render(ctx context.Context, d Driver, sess *session.Session, q url.Values) (*domain.View, error) {
	params, err := d.FetchParams(q)
	if err != nil {
		return nil, err
	}

	payload, cached := s.cached(sess, d.Name(), params)
	if cached {
		s.metrics.CacheHits.WithLabelValues(d.Name()).Inc()
	} else {
		s.metrics.Fetches.WithLabelValues(d.Name()).Inc()
		payload, err = s.source.Fetch(ctx, d.Endpoint(), params)
		if err != nil {
			if errors.Is(err, upstream.ErrBadQuery) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if sess != nil {
			sess.Cache.Put(d.Name(), params, payload)
		}
	}

	view, err := d.Render(ctx, payload, q, s.now())
	if err != nil {
		if errors.Is(err, ErrMalformedPayload) && sess != nil {
			sess.Cache.Invalidate(d.Name())
		}
		return nil, err
	}
	return view, nil
}

func (s *service) cached(sess *session.Session, report string, params url.Values) ([]byte, bool) {
	if sess == nil {
		return nil, false
	}
	return sess.Cache.Get(report, params)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}
