// Package soap implements the eboekhouden.Transport boundary against the
// live e-Boekhouden.nl SOAP endpoint. It renders an argument bundle as a
// SOAP 1.1 envelope, posts it, and decodes the response body generically
// into nested maps. Serialization details stay in this package; the client
// only sees named operations and result bundles.
package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
)

const (
	// DefaultURL is the production SOAP endpoint.
	DefaultURL = "https://soap.e-boekhouden.nl/soap.asmx"

	serviceNamespace = "http://www.e-boekhouden.nl/soap/"
	envelopeOpen     = `<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>`
	envelopeClose    = `</soap:Body></soap:Envelope>`
)

// Transport posts SOAP envelopes to a single endpoint. Safe for concurrent
// use; it holds no per-call state.
type Transport struct {
	url    string
	client *http.Client
	logger *zap.SugaredLogger
}

// Option configures a Transport.
type Option func(*Transport)

// WithURL points the transport at a non-default endpoint.
func WithURL(url string) Option {
	return func(t *Transport) {
		t.url = url
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		t.client = client
	}
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New returns a transport for the production endpoint unless overridden.
func New(opts ...Option) *Transport {
	t := &Transport{
		url:    DefaultURL,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Invoke posts one operation and returns the decoded contents of its
// <operation>Response element. All failures are marked as transport errors;
// service-level errors inside a well-formed response are left for the
// caller's error detection.
func (t *Transport) Invoke(ctx context.Context, operation string, args map[string]any) (map[string]any, error) {
	body := buildEnvelope(operation, args)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, strings.NewReader(body))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "build request"), eboekhouden.ErrTransport)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", serviceNamespace+operation)

	t.logger.Debugw("posting soap request", "operation", operation, "url", t.url)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "post %s", operation), eboekhouden.ErrTransport)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s response", operation), eboekhouden.ErrTransport)
	}

	// Faults come back as HTTP 500 with a Fault element; decode those for a
	// readable message before failing on the status code.
	result, fault, err := decodeBody(data)
	if fault != "" {
		return nil, errors.Mark(errors.Newf("%s: soap fault: %s", operation, fault), eboekhouden.ErrTransport)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(errors.Newf("%s: status %d", operation, resp.StatusCode), eboekhouden.ErrTransport)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s response", operation), eboekhouden.ErrTransport)
	}
	return result, nil
}

// buildEnvelope renders the request body. Bundle keys are written in sorted
// order so envelopes are deterministic.
func buildEnvelope(operation string, args map[string]any) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(envelopeOpen)
	fmt.Fprintf(&b, `<%s xmlns="%s">`, operation, serviceNamespace)
	writeFields(&b, args)
	fmt.Fprintf(&b, "</%s>", operation)
	b.WriteString(envelopeClose)
	return b.String()
}

func writeFields(b *strings.Builder, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeElement(b, k, fields[k])
	}
}

func writeElement(b *strings.Builder, name string, v any) {
	switch t := v.(type) {
	case map[string]any:
		b.WriteString("<" + name + ">")
		writeFields(b, t)
		b.WriteString("</" + name + ">")
	case []any:
		// repeated sibling elements, one per item
		for _, item := range t {
			writeElement(b, name, item)
		}
	default:
		b.WriteString("<" + name + ">")
		xml.EscapeText(b, []byte(fmt.Sprint(t)))
		b.WriteString("</" + name + ">")
	}
}

// decodeBody walks the envelope to the Body's response element and decodes
// it. A Fault element yields its faultstring instead.
func decodeBody(data []byte) (map[string]any, string, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	inBody := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, "", errors.New("no response element in envelope")
		}
		if err != nil {
			return nil, "", err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case start.Name.Local == "Envelope" || start.Name.Local == "Body":
			inBody = start.Name.Local == "Body"
		case inBody && start.Name.Local == "Fault":
			fault, err := decodeElement(d, start)
			if err != nil {
				return nil, "", err
			}
			if m, ok := fault.(map[string]any); ok {
				if s, ok := m["faultstring"].(string); ok {
					return nil, s, nil
				}
			}
			return nil, "unknown fault", nil
		case inBody:
			v, err := decodeElement(d, start)
			if err != nil {
				return nil, "", err
			}
			if m, ok := v.(map[string]any); ok {
				return m, "", nil
			}
			// void responses (CloseSession) decode to empty text
			return map[string]any{}, "", nil
		}
	}
}

// decodeElement decodes one element and its subtree. Elements with children
// become map[string]any, repeated sibling names collapse into []any, and
// leaf elements become their trimmed character data. This shape is exactly
// what the client's response normalizer expects: a single child stays a
// bare map, never a one-element slice.
func decodeElement(d *xml.Decoder, start xml.StartElement) (any, error) {
	children := map[string]any{}
	var text strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(d, t)
			if err != nil {
				return nil, err
			}
			name := t.Name.Local
			if existing, ok := children[name]; ok {
				if list, ok := existing.([]any); ok {
					children[name] = append(list, child)
				} else {
					children[name] = []any{existing, child}
				}
			} else {
				children[name] = child
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(children) > 0 {
				return children, nil
			}
			return strings.TrimSpace(text.String()), nil
		}
	}
}
