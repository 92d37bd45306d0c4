package soap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
)

func TestBuildEnvelope(t *testing.T) {
	body := buildEnvelope("OpenSession", map[string]any{
		"Username":      "user&co",
		"SecurityCode1": "one",
		"SecurityCode2": "two",
	})

	// keys are emitted in sorted order, values escaped
	want := `<OpenSession xmlns="http://www.e-boekhouden.nl/soap/">` +
		`<SecurityCode1>one</SecurityCode1>` +
		`<SecurityCode2>two</SecurityCode2>` +
		`<Username>user&amp;co</Username>` +
		`</OpenSession>`
	assert.Contains(t, body, want)
	assert.Contains(t, body, `<soap:Envelope`)
}

func TestBuildEnvelopeNestedBundles(t *testing.T) {
	body := buildEnvelope("AddFactuur", map[string]any{
		"SessionID": "s",
		"oFact": map[string]any{
			"Relatiecode": "REL001",
			"Regels": map[string]any{
				"cFactuurRegel": []any{
					map[string]any{"Aantal": 1},
					map[string]any{"Aantal": 2},
				},
			},
		},
	})

	assert.Contains(t, body, `<oFact><Regels>`+
		`<cFactuurRegel><Aantal>1</Aantal></cFactuurRegel>`+
		`<cFactuurRegel><Aantal>2</Aantal></cFactuurRegel>`+
		`</Regels><Relatiecode>REL001</Relatiecode></oFact>`)
}

const relatiesEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetRelatiesResponse xmlns="http://www.e-boekhouden.nl/soap/">
      <GetRelatiesResult>
        <ErrorMsg>
          <LastErrorCode/>
          <LastErrorDescription/>
        </ErrorMsg>
        <Relaties>
          <cRelatie><ID>2</ID><Code>REL001</Code></cRelatie>
          <cRelatie><ID>3</ID><Code>REL002</Code></cRelatie>
        </Relaties>
      </GetRelatiesResult>
    </GetRelatiesResponse>
  </soap:Body>
</soap:Envelope>`

func TestInvokeDecodesRepeatedElements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "http://www.e-boekhouden.nl/soap/GetRelaties", r.Header.Get("SOAPAction"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<GetRelaties")
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		io.WriteString(w, relatiesEnvelope)
	}))
	defer server.Close()

	transport := New(WithURL(server.URL))
	resp, err := transport.Invoke(context.Background(), "GetRelaties", map[string]any{"SessionID": "s"})
	require.NoError(t, err)

	result, ok := resp["GetRelatiesResult"].(map[string]any)
	require.True(t, ok)

	relaties, ok := result["Relaties"].(map[string]any)
	require.True(t, ok)

	list, ok := relaties["cRelatie"].([]any)
	require.True(t, ok, "repeated siblings decode to a slice")
	require.Len(t, list, 2)
	first, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "REL001", first["Code"])
}

const singleRelatieEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetRelatiesResponse xmlns="http://www.e-boekhouden.nl/soap/">
      <GetRelatiesResult>
        <Relaties>
          <cRelatie><ID>2</ID><Code>REL001</Code></cRelatie>
        </Relaties>
      </GetRelatiesResult>
    </GetRelatiesResponse>
  </soap:Body>
</soap:Envelope>`

func TestInvokeSingleChildStaysScalar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, singleRelatieEnvelope)
	}))
	defer server.Close()

	transport := New(WithURL(server.URL))
	resp, err := transport.Invoke(context.Background(), "GetRelaties", nil)
	require.NoError(t, err)

	result := resp["GetRelatiesResult"].(map[string]any)
	relaties := result["Relaties"].(map[string]any)

	// the wire-format ambiguity the client normalizes: one element is a
	// bare record, not a one-element slice
	single, ok := relaties["cRelatie"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "REL001", single["Code"])
}

const voidEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <CloseSessionResponse xmlns="http://www.e-boekhouden.nl/soap/" />
  </soap:Body>
</soap:Envelope>`

func TestInvokeVoidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, voidEnvelope)
	}))
	defer server.Close()

	transport := New(WithURL(server.URL))
	resp, err := transport.Invoke(context.Background(), "CloseSession", map[string]any{"SessionID": "s"})
	require.NoError(t, err)
	assert.Empty(t, resp)
}

const faultEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Server was unable to process request.</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

func TestInvokeFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, faultEnvelope)
	}))
	defer server.Close()

	transport := New(WithURL(server.URL))
	_, err := transport.Invoke(context.Background(), "GetRelaties", nil)
	require.Error(t, err)
	assert.True(t, eboekhouden.IsTransport(err))
	assert.ErrorContains(t, err, "Server was unable to process request.")
}

func TestInvokeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream broke")
	}))
	defer server.Close()

	transport := New(WithURL(server.URL))
	_, err := transport.Invoke(context.Background(), "GetRelaties", nil)
	require.Error(t, err)
	assert.True(t, eboekhouden.IsTransport(err))
	assert.ErrorContains(t, err, "status 502")
}
