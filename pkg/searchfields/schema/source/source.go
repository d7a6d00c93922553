// Package source loads the field table from wherever the deployment keeps it:
// the embedded default, a local file (optionally gzip-compressed) or an
// S3-compatible bucket.
package source

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

// Source yields a validated field table.
type Source interface {
	Load(ctx context.Context) (schema.Table, error)
}

type Options struct {
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Secure    bool
}

// Open picks a source from a location string:
//
//   - "" or "builtin": the embedded table
//   - "s3://bucket/key": an object in an S3-compatible store
//   - anything else: a local path; a ".gz" suffix means gzip-compressed
func Open(location string, opts Options) (Source, error) {
	switch {
	case location == "" || location == "builtin":
		return Builtin{}, nil
	case strings.HasPrefix(location, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, sferrors.NewError(sferrors.ErrConfiguration, "schema location must be s3://bucket/key: "+location)
		}
		if opts.S3Endpoint == "" {
			return nil, sferrors.NewError(sferrors.ErrConfiguration, "s3 schema location requires an endpoint")
		}
		client, err := minio.New(opts.S3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(opts.S3AccessKey, opts.S3SecretKey, ""),
			Secure: opts.S3Secure,
			Region: opts.S3Region,
		})
		if err != nil {
			return nil, sferrors.Wrap(sferrors.ErrConfiguration, "s3 client", err)
		}
		return &Object{Client: client, Bucket: bucket, Key: key}, nil
	default:
		return File{Path: location}, nil
	}
}

type Builtin struct{}

func (Builtin) Load(_ context.Context) (schema.Table, error) {
	return schema.Default()
}

type File struct {
	Path string
}

func (f File) Load(_ context.Context) (schema.Table, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "open schema file", err)
	}
	defer fh.Close()
	return decode(fh, strings.HasSuffix(f.Path, ".gz"))
}

// Object reads the table from an S3-compatible bucket.
type Object struct {
	Client *minio.Client
	Bucket string
	Key    string
}

func (o *Object) Load(ctx context.Context) (schema.Table, error) {
	obj, err := o.Client.GetObject(ctx, o.Bucket, o.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "get schema object", err)
	}
	defer obj.Close()
	t, err := decode(obj, strings.HasSuffix(o.Key, ".gz"))
	if err != nil {
		return nil, o.classify(err)
	}
	return t, nil
}

// classify reports a missing bucket or key as such. minio only surfaces the
// response error on the first read, which decode has already wrapped.
func (o *Object) classify(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket") {
		return sferrors.Wrap(sferrors.ErrConfiguration, "schema object not found: "+o.Bucket+"/"+o.Key, resp)
	}
	return err
}

func decode(r io.Reader, compressed bool) (schema.Table, error) {
	if compressed {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, sferrors.Wrap(sferrors.ErrConfiguration, "gzip", err)
		}
		defer zr.Close()
		r = zr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "read schema", err)
	}
	return schema.FromJSON(b)
}
