// Package elasticsearch talks to a real cluster through go-elasticsearch.
// Requests use the typed 7.x API (include_type_name) so mappings stay keyed
// by document type, as the rest of searchfields expects. Mappings are
// translated by Modernize before they are sent.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

type Options struct {
	URLs     []string
	Username string
	Password string

	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

type Adapter struct {
	es *es7.Client
}

var _ backend.Backend = (*Adapter)(nil)

func New(opts Options) (*Adapter, error) {
	if len(opts.URLs) == 0 {
		return nil, sferrors.Configuration("es_url", "elasticsearch backend needs at least one URL")
	}
	client, err := es7.NewClient(es7.Config{
		Addresses: opts.URLs,
		Username:  opts.Username,
		Password:  opts.Password,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "elasticsearch client", err)
	}
	return &Adapter{es: client}, nil
}

func (a *Adapter) Name() string { return "elasticsearch" }

func (a *Adapter) Close() error { return nil }

// check turns a transport error or an error response into a classified
// searchfields error. The response body is consumed and closed.
func check(op, index string, res *esapi.Response, err error) error {
	if err != nil {
		return sferrors.Wrap(sferrors.ErrBackendUnavailable, "elasticsearch "+op, err)
	}
	if !res.IsError() {
		return nil
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	cause := fmt.Errorf("[%d] %s", res.StatusCode, strings.TrimSpace(string(body)))

	switch res.StatusCode {
	case http.StatusNotFound:
		e := sferrors.IndexNotFound(index)
		e.Cause = cause
		return e
	case http.StatusBadRequest:
		return sferrors.BadArgument("storage_mapping", "elasticsearch rejected "+op, cause)
	default:
		return sferrors.Wrap(sferrors.ErrBackendUnavailable, "elasticsearch "+op, cause)
	}
}

func drain(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}

func encode(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (a *Adapter) CreateIndex(ctx context.Context, name string, mapping map[string]any) error {
	body, err := encode(map[string]any{"mappings": Modernize(mapping)})
	if err != nil {
		return sferrors.BadArgument("storage_mapping", "mapping is not serializable", err)
	}
	res, err := a.es.Indices.Create(name,
		a.es.Indices.Create.WithContext(ctx),
		a.es.Indices.Create.WithBody(body),
		a.es.Indices.Create.WithIncludeTypeName(true),
	)
	if err := check("create index", name, res, err); err != nil {
		return err
	}
	drain(res)
	return nil
}

func (a *Adapter) GetMapping(ctx context.Context, name string) (map[string]any, error) {
	res, err := a.es.Indices.GetMapping(
		a.es.Indices.GetMapping.WithContext(ctx),
		a.es.Indices.GetMapping.WithIndex(name),
		a.es.Indices.GetMapping.WithIncludeTypeName(true),
	)
	if err := check("get mapping", name, res, err); err != nil {
		return nil, err
	}
	defer drain(res)

	var out map[string]struct {
		Mappings map[string]any `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrBackendUnavailable, "decode mapping of "+name, err)
	}
	// An alias resolves to the concrete index name, so take the only entry.
	for _, idx := range out {
		if idx.Mappings == nil {
			return map[string]any{}, nil
		}
		return idx.Mappings, nil
	}
	return nil, sferrors.IndexNotFound(name)
}

func (a *Adapter) IndexDocument(ctx context.Context, index, docType string, doc map[string]any) error {
	body, err := encode(doc)
	if err != nil {
		return sferrors.BadArgument("document", "document is not serializable", err)
	}
	res, err := a.es.Index(index, body,
		a.es.Index.WithContext(ctx),
		a.es.Index.WithDocumentType(docType),
	)
	if err := check("index document", index, res, err); err != nil {
		return err
	}
	drain(res)
	return nil
}

func (a *Adapter) DeleteIndex(ctx context.Context, name string) error {
	res, err := a.es.Indices.Delete([]string{name},
		a.es.Indices.Delete.WithContext(ctx),
	)
	if err := check("delete index", name, res, err); err != nil {
		return err
	}
	drain(res)
	return nil
}

func (a *Adapter) Refresh(ctx context.Context, name string) error {
	res, err := a.es.Indices.Refresh(
		a.es.Indices.Refresh.WithContext(ctx),
		a.es.Indices.Refresh.WithIndex(name),
	)
	if err := check("refresh", name, res, err); err != nil {
		return err
	}
	drain(res)
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (a *Adapter) SampleDocuments(ctx context.Context, indices []string, docType string, size int) ([]map[string]any, error) {
	if size <= 0 || len(indices) == 0 {
		return nil, nil
	}
	res, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(indices...),
		a.es.Search.WithDocumentType(docType),
		a.es.Search.WithSize(size),
		a.es.Search.WithIgnoreUnavailable(true),
		a.es.Search.WithAllowNoIndices(true),
	)
	if err := check("sample documents", strings.Join(indices, ","), res, err); err != nil {
		if sferrors.IsCode(err, sferrors.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer drain(res)

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrBackendUnavailable, "decode search response", err)
	}
	docs := make([]map[string]any, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		if h.Source != nil {
			docs = append(docs, h.Source)
		}
	}
	return docs, nil
}
