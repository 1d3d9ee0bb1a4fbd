// Package publish uploads rendered pages to S3-compatible storage.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/rview/internal/errors"
)

// ContentType is the content type of every published page.
const ContentType = "text/html; charset=utf-8"

// PutObjectAPI is the part of *s3.Client that Publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// Location is a bucket and key parsed from an s3:// URL.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string { return "s3://" + l.Bucket + "/" + l.Key }

// ParseLocation parses s3://bucket/key. It reports false for anything that
// is not an s3 URL, such as a local file path.
func ParseLocation(raw string) (Location, bool) {
	if !strings.HasPrefix(raw, "s3://") {
		return Location{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Location{}, false
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key += "index.html"
	}
	return Location{Bucket: u.Host, Key: key}, true
}

// Publisher uploads pages.
type Publisher struct {
	client PutObjectAPI
	now    func() time.Time
}

// New returns a publisher using client.
func New(client PutObjectAPI) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

// Publish uploads html to loc. Example names the view that was rendered
// and is recorded as object metadata.
func (p *Publisher) Publish(ctx context.Context, loc Location, example string, html []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        bytes.NewReader(html),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"rview-example": example,
			"render-time":   p.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New("E062").
			WithDetail(fmt.Sprintf("Uploading to %s failed.", loc)).
			Wrap(err)
	}
	return nil
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	// Region is the bucket region.
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	// Setting it also switches to path-style addressing.
	Endpoint string
}

// NewClient returns an S3 client that reads AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN from the environment on
// first use.
func NewClient(opts ClientOptions) *s3.Client {
	return s3.New(s3.Options{
		Region:      opts.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("publish: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
