package chart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/model"
)

// Server and URL constants
const (
	APIPath        = "/api/data/"
	LocalhostName  = "localhost"
	LocalhostPort  = "8000"
	DefaultTimeout = 10 * time.Second

	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Query parameters understood by the server
const (
	ParamSinceN     = "sinceN"
	ParamLastN      = "lastN"
	ParamLog        = "log"
	ParamBar        = "bar"
	ParamDataSource = "dataSource"
	ValueTrue       = "True"
)

const maxBodyBytes = 32 << 20

// ServerConfig describes where and how to reach the chart server
type ServerConfig struct {
	Host     string
	UseHTTPS bool
	Timeout  time.Duration

	// Probe makes New check reachability before returning
	Probe bool
	// EncodePath percent-encodes the location and attribute path segments.
	// Off by default: the reference servers expect the raw segments.
	EncodePath bool
}

// Client builds chart URLs and fetches chart images. It is safe for
// concurrent use; nothing is mutated after New returns.
type Client struct {
	host       string
	useHTTPS   bool
	timeout    time.Duration
	encodePath bool
	catalog    *catalog.Catalog
	httpClient *http.Client
	prober     Prober
	log        logrus.FieldLogger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for fetches
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithProber replaces the reachability probe used when ServerConfig.Probe is set
func WithProber(p Prober) Option {
	return func(c *Client) {
		c.prober = p
	}
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for cfg. A nil catalog selects the default built-in
// catalog. No network I/O happens unless cfg.Probe is set, in which case an
// unreachable server fails construction with an *UnreachableError.
func New(cfg ServerConfig, cat *catalog.Catalog, opts ...Option) (*Client, error) {
	if cat == nil {
		var err error
		if cat, err = catalog.Builtin(catalog.DefaultVersion); err != nil {
			return nil, err
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		host:       NormalizeHost(cfg.Host),
		useHTTPS:   cfg.UseHTTPS,
		timeout:    timeout,
		encodePath: cfg.EncodePath,
		catalog:    cat,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.prober == nil {
		port := "80"
		if c.useHTTPS {
			port = "443"
		}
		c.prober = TCPProber{DefaultPort: port}
	}

	if cfg.Probe {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.prober.Probe(ctx, c.host, timeout); err != nil {
			c.log.WithField("host", c.host).WithError(err).Error("chart server unreachable")
			return nil, &UnreachableError{Host: c.host, Err: err}
		}
	}

	c.log.WithFields(logrus.Fields{
		"host":    c.host,
		"https":   c.useHTTPS,
		"catalog": cat.Version(),
	}).Debug("chart client ready")

	return c, nil
}

// NormalizeHost trims host and appends the development port to localhost
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == LocalhostName {
		return host + ":" + LocalhostPort
	}
	return host
}

// Host returns the effective host, including the localhost port
func (c *Client) Host() string {
	return c.host
}

// UseHTTPS reports whether URLs use the https scheme
func (c *Client) UseHTTPS() bool {
	return c.useHTTPS
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Catalog returns the attribute catalog the client was built with
func (c *Client) Catalog() *catalog.Catalog {
	return c.catalog
}

// BuildURL returns the request URL for req. It is a pure function of the
// client configuration and req.
//
// The path is scheme://host/api/data/{locations}/{attribute} followed by "?"
// and the applicable parameters joined by "&" in the order sinceN|lastN, log,
// bar, dataSource. The "?" is present even without parameters.
func (c *Client) BuildURL(req model.ChartRequest) string {
	var b strings.Builder
	if c.useHTTPS {
		b.WriteString(SchemeHTTPS)
	} else {
		b.WriteString(SchemeHTTP)
	}
	b.WriteString("://")
	b.WriteString(c.host)
	b.WriteString(APIPath)
	b.WriteString(c.locationsSegment(req.Locations))
	b.WriteByte('/')
	b.WriteString(c.attributeSegment(req.Attribute))
	b.WriteByte('?')
	b.WriteString(strings.Join(QueryParams(req), "&"))
	return b.String()
}

// QueryParams returns the "key=value" query parameters of req in wire order
func QueryParams(req model.ChartRequest) []string {
	var params []string
	switch req.Range.Kind {
	case model.RangeSinceNCases:
		params = append(params, ParamSinceN+"="+strconv.FormatUint(uint64(req.Range.N), 10))
	case model.RangeLastNDays:
		params = append(params, ParamLastN+"="+strconv.FormatUint(uint64(req.Range.N), 10))
	}
	if req.Style.Logarithmic {
		params = append(params, ParamLog+"="+ValueTrue)
	}
	if req.Style.BarGraph {
		params = append(params, ParamBar+"="+ValueTrue)
	}
	if req.Source != model.DataSourceDefault {
		params = append(params, ParamDataSource+"="+string(req.Source))
	}
	return params
}

// StripWhitespace removes every whitespace character from s
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (c *Client) locationsSegment(locations string) string {
	locations = StripWhitespace(locations)
	if !c.encodePath {
		return locations
	}
	tokens := strings.Split(locations, ",")
	for i, tok := range tokens {
		tokens[i] = url.PathEscape(tok)
	}
	return strings.Join(tokens, ",")
}

func (c *Client) attributeSegment(attribute string) string {
	if !c.encodePath {
		return attribute
	}
	return url.PathEscape(attribute)
}

// FetchChart builds the URL for req, performs a single GET and decodes the
// body as an image. Every failure is an *Error carrying the attempted URL;
// the client stays usable afterwards.
func (c *Client) FetchChart(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error) {
	rawURL := c.BuildURL(req)
	log := c.log.WithField("url", rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, c.fail(log, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err})
	}
	if u.Host == "" {
		return nil, c.fail(log, &Error{Kind: KindInvalidURL, URL: rawURL, Err: errors.New("empty host")})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, c.fail(log, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err})
	}

	log.Debug("fetching chart")
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(log, &Error{Kind: KindNoResponse, URL: rawURL, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(log, &Error{Kind: KindNoResponse, URL: rawURL, Err: err})
	}

	img, format, err := decodeImage(bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(log, &Error{
			Kind:       KindInvalidResponse,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Detail:     serverDetail(body),
			Err:        err,
		})
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("chart server returned an image with a non-OK status")
	}

	log.WithFields(logrus.Fields{
		"format":  format,
		"bytes":   len(body),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("chart fetched")

	return &model.ChartResult{Image: img, Format: format, URL: rawURL}, nil
}

func (c *Client) fail(log logrus.FieldLogger, err *Error) error {
	log.WithFields(logrus.Fields{
		"kind":   err.Kind.String(),
		"status": err.StatusCode,
	}).WithError(err.Err).Warn("chart fetch failed")
	return err
}
